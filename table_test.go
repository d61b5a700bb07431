package pptxjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertTableGridAndContent(t *testing.T) {
	sc := testSlideContext(t)
	tbl := mustParse(t, `<tbl>
		<tblPr/>
		<tblGrid>
			<gridCol w="914400"/>
			<gridCol w="457200"/>
		</tblGrid>
		<tr h="381000">
			<tc><txBody><p><r><t>A1</t></r></p></txBody></tc>
			<tc><txBody><p><r><t>B1</t></r></p></txBody></tc>
		</tr>
		<tr h="381000">
			<tc gridSpan="2"><txBody><p><r><t>A2</t></r></p></txBody></tc>
			<tc hMerge="1"/>
		</tr>
	</tbl>`)

	table := convertTable(tbl, sc)
	require.NotNil(t, table)

	assert.Equal(t, []float64{72, 36}, table.ColWidths)
	assert.Equal(t, []float64{30, 30}, table.RowHeights)
	require.Len(t, table.Rows, 2)
	require.Len(t, table.Rows[0], 2)

	a1 := table.Rows[0][0]
	require.NotNil(t, a1.Text)
	assert.Equal(t, "A1", a1.Text.Paragraphs[0].Runs[0].Text)

	a2 := table.Rows[1][0]
	assert.Equal(t, 2, a2.ColSpan)
	assert.True(t, table.Rows[1][1].HMerge)
}

func TestCellFillPrecedence(t *testing.T) {
	sc := testSlideContext(t)
	style := &tableStyle{
		wholeTbl: &Fill{Type: FillSolid, Value: "#EEEEEE"},
		band1H:   &Fill{Type: FillSolid, Value: "#DDDDDD"},
		band2H:   &Fill{Type: FillSolid, Value: "#CCCCCC"},
		firstRow: &Fill{Type: FillSolid, Value: "#111111"},
		lastRow:  &Fill{Type: FillSolid, Value: "#222222"},
	}
	emptyCell := mustParse(t, `<tc/>`)

	// Explicit cell fill beats everything.
	explicit := mustParse(t, `<tc><tcPr><solidFill><srgbClr val="ABCDEF"/></solidFill></tcPr></tc>`)
	fill := cellFill(explicit, sc, style, true, true, true, 0, 4)
	require.NotNil(t, fill)
	assert.Equal(t, "#ABCDEF", fill.Value)

	// First-row emphasis beats banding at row 0 when enabled.
	fill = cellFill(emptyCell, sc, style, true, false, true, 0, 4)
	assert.Equal(t, "#111111", fill.Value)

	// With the flag off, row 0 falls through to band parity.
	fill = cellFill(emptyCell, sc, style, false, false, true, 0, 4)
	assert.Equal(t, "#DDDDDD", fill.Value)

	// Odd rows take the second band.
	fill = cellFill(emptyCell, sc, style, false, false, true, 1, 4)
	assert.Equal(t, "#CCCCCC", fill.Value)

	// Last row emphasis.
	fill = cellFill(emptyCell, sc, style, false, true, true, 3, 4)
	assert.Equal(t, "#222222", fill.Value)

	// No banding: whole-table fill.
	fill = cellFill(emptyCell, sc, style, false, false, false, 2, 4)
	assert.Equal(t, "#EEEEEE", fill.Value)

	// No style at all: nil.
	assert.Nil(t, cellFill(emptyCell, sc, nil, true, true, true, 0, 4))
}

func TestSpanAndBoolAttrs(t *testing.T) {
	assert.Equal(t, 0, spanAttr(""))
	assert.Equal(t, 0, spanAttr("1"))
	assert.Equal(t, 3, spanAttr("3"))

	assert.True(t, boolAttr("1"))
	assert.True(t, boolAttr("true"))
	assert.False(t, boolAttr("0"))
	assert.False(t, boolAttr(""))
}
