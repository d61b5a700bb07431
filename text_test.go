package pptxjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainCascade() textCascade {
	th := testTheme()
	return textCascade{env: ColorEnv{Theme: th}, theme: th}
}

func TestResolveRunStyleCascadePriority(t *testing.T) {
	tc := plainCascade()
	tc.shapeStyle = mustParse(t, `<lstStyle>
		<lvl1pPr><defRPr sz="2000" b="1"/></lvl1pPr>
	</lstStyle>`)
	tc.masterBlock = mustParse(t, `<bodyStyle>
		<lvl1pPr><defRPr sz="3200" i="1"/></lvl1pPr>
	</bodyStyle>`)

	runRPr := mustParse(t, `<rPr sz="1400"/>`)

	// The run's own rPr wins for size; bold and italic fall through to the
	// first level that defines each of them.
	style := tc.resolveRunStyle(runRPr, nil, 0)
	assert.Equal(t, 14.0, style.SizePt)
	assert.True(t, style.Bold)
	assert.True(t, style.Italic)

	// Without a run rPr the shape list style supplies the size.
	style = tc.resolveRunStyle(nil, nil, 0)
	assert.Equal(t, 20.0, style.SizePt)
}

func TestResolveRunStyleDefaults(t *testing.T) {
	tc := plainCascade()
	style := tc.resolveRunStyle(nil, nil, 0)

	assert.Equal(t, defaultFontSizePt, style.SizePt)
	// Default color is the theme dk1 slot.
	assert.Equal(t, "#000000", style.Color)
	assert.False(t, style.Bold)
	assert.Empty(t, style.Decoration)
}

func TestResolveRunStyleExplicitProperties(t *testing.T) {
	tc := plainCascade()
	rPr := mustParse(t, `<rPr sz="2400" u="sng" baseline="-25000" spc="150">
		<solidFill><srgbClr val="FF0000"/></solidFill>
		<latin typeface="Consolas"/>
	</rPr>`)

	style := tc.resolveRunStyle(rPr, nil, 0)
	assert.Equal(t, 24.0, style.SizePt)
	assert.Equal(t, "underline", style.Decoration)
	assert.True(t, style.Subscript)
	assert.False(t, style.Superscript)
	assert.Equal(t, 1.5, style.SpacingPt)
	assert.Equal(t, "#FF0000", style.Color)
	assert.Equal(t, "Consolas", style.FontFamily)
}

func TestResolveRunStyleFontRefColorFallback(t *testing.T) {
	tc := plainCascade()
	ref := ParseHexColor("336699")
	tc.fontRefColor = &ref

	style := tc.resolveRunStyle(nil, nil, 0)
	assert.Equal(t, "#336699", style.Color)

	// Explicit fill still beats the style reference.
	rPr := mustParse(t, `<rPr><solidFill><srgbClr val="FF0000"/></solidFill></rPr>`)
	style = tc.resolveRunStyle(rPr, nil, 0)
	assert.Equal(t, "#FF0000", style.Color)
}

func TestConvertParagraphRunOrder(t *testing.T) {
	tc := plainCascade()
	p := mustParse(t, `<p>
		<r><t>first</t></r>
		<br/>
		<fld id="{1}" type="slidenum"><t>2</t></fld>
		<r><t>last</t></r>
	</p>`)

	para := convertParagraph(p, tc)
	require.Len(t, para.Runs, 4)
	assert.Equal(t, "first", para.Runs[0].Text)
	assert.Equal(t, "\n", para.Runs[1].Text)
	assert.Equal(t, "2", para.Runs[2].Text)
	assert.Equal(t, "last", para.Runs[3].Text)
}

func TestConvertParagraphAlignmentAndLevel(t *testing.T) {
	tc := plainCascade()
	p := mustParse(t, `<p><pPr lvl="1" algn="ctr" rtl="1"/><r><t>x</t></r></p>`)

	para := convertParagraph(p, tc)
	assert.Equal(t, "center", para.Align)
	assert.Equal(t, "rtl", para.Direction)
	assert.Equal(t, 1, para.Level)
}

func TestConvertTextBodyKeepsEmptyParagraphs(t *testing.T) {
	tc := plainCascade()
	txBody := mustParse(t, `<txBody>
		<p><r><t>line one</t></r></p>
		<p/>
		<p><r><t>line three</t></r></p>
	</txBody>`)

	rt := convertTextBody(txBody, tc)
	require.NotNil(t, rt)
	require.Len(t, rt.Paragraphs, 3)

	// The blank line survives as a paragraph with an empty, non-nil run list.
	assert.NotNil(t, rt.Paragraphs[1].Runs)
	assert.Len(t, rt.Paragraphs[1].Runs, 0)
}

func TestFindPlaceholderPrefersIndex(t *testing.T) {
	layout := mustParse(t, `<sldLayout><cSld><spTree>
		<sp>
			<nvSpPr><nvPr><ph type="body" idx="1"/></nvPr></nvSpPr>
			<txBody><lstStyle/></txBody>
		</sp>
		<sp>
			<nvSpPr><nvPr><ph type="body" idx="2"/></nvPr></nvSpPr>
		</sp>
	</spTree></cSld></sldLayout>`)

	sp := findPlaceholder(layout, "body", "2")
	require.NotNil(t, sp)
	assert.Equal(t, "2", sp.Path("nvSpPr", "nvPr", "ph").Attr("idx"))

	// With no index match, fall back to type. ctrTitle matches title.
	title := mustParse(t, `<sldLayout><cSld><spTree>
		<sp><nvSpPr><nvPr><ph type="title"/></nvPr></nvSpPr></sp>
	</spTree></cSld></sldLayout>`)
	assert.NotNil(t, findPlaceholder(title, "ctrTitle", ""))
	assert.Nil(t, findPlaceholder(title, "body", ""))
}

func TestTextStyleBlockMapping(t *testing.T) {
	assert.Equal(t, "titleStyle", textStyleBlock("ctrTitle"))
	assert.Equal(t, "bodyStyle", textStyleBlock("subTitle"))
	assert.Equal(t, "bodyStyle", textStyleBlock(""))
	assert.Equal(t, "otherStyle", textStyleBlock("dt"))
}
