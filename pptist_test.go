package pptxjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPPTist(t *testing.T) {
	res := &Result{
		Title:       "Deck",
		Size:        Size{Width: 960, Height: 540},
		ThemeColors: []string{"#111111", "#FEFEFE", "#222222"},
		MinorFont:   "Calibri",
		Slides: []Slide{
			{
				Number:     1,
				Background: Fill{Type: FillSolid, Value: "#ABCDEF"},
				Note:       "speaker note",
				Elements: []Element{
					{Type: "shape", Left: 10, Top: 20, Width: 30, Height: 40,
						Fill: &Fill{Type: FillSolid, Value: "#4472C4"}},
					{Type: "math", Latex: `\frac{1}{2}`},
					{Type: "group", Children: []Element{{Type: "line"}}},
				},
			},
			{Number: 2, Background: Fill{Type: FillNone}},
		},
	}

	pres := ToPPTist(res)
	assert.Equal(t, "Deck", pres.Title)
	assert.Equal(t, 960.0, pres.Width)
	assert.Equal(t, "#111111", pres.Theme.FontColor)
	assert.Equal(t, "#FEFEFE", pres.Theme.BackgroundColor)
	assert.Equal(t, "Calibri", pres.Theme.FontName)

	require.Len(t, pres.Slides, 2)
	s1 := pres.Slides[0]
	assert.NotEmpty(t, s1.ID)
	assert.Equal(t, "speaker note", s1.Remark)
	assert.Equal(t, PPTistBackground{Type: "solid", Color: "#ABCDEF"}, s1.Background)

	require.Len(t, s1.Elements, 3)
	assert.Equal(t, "shape", s1.Elements[0].Type)
	assert.Equal(t, "#4472C4", s1.Elements[0].Fill)
	assert.Equal(t, "latex", s1.Elements[1].Type)
	require.Len(t, s1.Elements[2].Children, 1)
	assert.Equal(t, "line", s1.Elements[2].Children[0].Type)

	// Every generated ID is unique.
	assert.NotEqual(t, s1.ID, pres.Slides[1].ID)
	assert.NotEqual(t, s1.Elements[0].ID, s1.Elements[1].ID)

	// A fill the editor cannot express becomes the white default.
	assert.Equal(t, PPTistBackground{Type: "solid", Color: "#FFFFFF"}, pres.Slides[1].Background)
}

func TestThemeSlotOr(t *testing.T) {
	res := &Result{ThemeColors: []string{"#010101"}}
	assert.Equal(t, "#010101", themeSlotOr(res, 0, "#000000"))
	assert.Equal(t, "#FFFFFF", themeSlotOr(res, 1, "#FFFFFF"))
}

func TestPPTistJSONMarshal(t *testing.T) {
	pres := ToPPTist(&Result{Size: Size{Width: 960, Height: 720}})
	data, err := PPTistJSON(pres)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"width": 960`)
}
