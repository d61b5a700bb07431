package pptxjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertShapeBasics(t *testing.T) {
	sc := testSlideContext(t)
	sp := mustParse(t, `<sp>
		<nvSpPr><cNvPr id="2" name="Rectangle 1"/><nvPr/></nvSpPr>
		<spPr>
			<xfrm rot="5400000" flipH="1">
				<off x="914400" y="457200"/>
				<ext cx="1828800" cy="914400"/>
			</xfrm>
			<prstGeom prst="rect"/>
			<solidFill><schemeClr val="accent1"/></solidFill>
		</spPr>
		<txBody><p><r><t>hello</t></r></p></txBody>
	</sp>`)

	el := convertShape(sp, sc, nil, identityTransform)
	require.NotNil(t, el)

	assert.Equal(t, "shape", el.Type)
	assert.Equal(t, "Rectangle 1", el.Name)
	assert.Equal(t, 72.0, el.Left)
	assert.Equal(t, 36.0, el.Top)
	assert.Equal(t, 144.0, el.Width)
	assert.Equal(t, 72.0, el.Height)
	assert.Equal(t, 90.0, el.Rotation)
	assert.True(t, el.FlipH)
	assert.False(t, el.FlipV)

	require.NotNil(t, el.Fill)
	assert.Equal(t, "#4472C4", el.Fill.Value)

	assert.Equal(t, [2]float64{144, 72}, el.ViewBox)
	assert.NotEmpty(t, el.Path)

	require.NotNil(t, el.Text)
	assert.Equal(t, "hello", el.Text.Paragraphs[0].Runs[0].Text)
}

func TestConvertShapeStyleFillReference(t *testing.T) {
	sc := testSlideContext(t)
	sp := mustParse(t, `<sp>
		<nvSpPr><cNvPr id="3" name="Styled"/><nvPr/></nvSpPr>
		<spPr>
			<xfrm><off x="0" y="0"/><ext cx="914400" cy="914400"/></xfrm>
			<prstGeom prst="rect"/>
		</spPr>
		<style>
			<fillRef idx="1"><schemeClr val="accent2"/></fillRef>
		</style>
	</sp>`)

	el := convertShape(sp, sc, nil, identityTransform)
	require.NotNil(t, el.Fill)
	assert.Equal(t, Fill{Type: FillSolid, Value: "#ED7D31"}, *el.Fill)
}

func TestConvertShapeInheritsPlaceholderBox(t *testing.T) {
	sc := testSlideContext(t)
	sc.layout = mustParse(t, `<sldLayout><cSld><spTree>
		<sp>
			<nvSpPr><nvPr><ph type="title"/></nvPr></nvSpPr>
			<spPr><xfrm>
				<off x="914400" y="914400"/>
				<ext cx="914400" cy="457200"/>
			</xfrm></spPr>
		</sp>
	</spTree></cSld></sldLayout>`)

	sp := mustParse(t, `<sp>
		<nvSpPr><cNvPr id="4" name="Title 1"/><nvPr><ph type="title"/></nvPr></nvSpPr>
		<spPr><prstGeom prst="rect"/></spPr>
	</sp>`)

	el := convertShape(sp, sc, nil, identityTransform)
	assert.Equal(t, "title", el.Placeholder)
	assert.Equal(t, 72.0, el.Left)
	assert.Equal(t, 72.0, el.Top)
	assert.Equal(t, 72.0, el.Width)
	assert.Equal(t, 36.0, el.Height)
}

func TestConvertGroupFoldsChildTransform(t *testing.T) {
	sc := testSlideContext(t)
	grp := mustParse(t, `<grpSp>
		<nvGrpSpPr><cNvPr id="5" name="Group 1"/></nvGrpSpPr>
		<grpSpPr>
			<xfrm>
				<off x="914400" y="0"/>
				<ext cx="1828800" cy="1828800"/>
				<chOff x="0" y="0"/>
				<chExt cx="914400" cy="914400"/>
			</xfrm>
			<solidFill><srgbClr val="00FF00"/></solidFill>
		</grpSpPr>
		<sp>
			<nvSpPr><cNvPr id="6" name="Child"/><nvPr/></nvSpPr>
			<spPr>
				<xfrm><off x="457200" y="457200"/><ext cx="228600" cy="228600"/></xfrm>
				<prstGeom prst="rect"/>
				<grpFill/>
			</spPr>
		</sp>
	</grpSp>`)

	el := convertGroup(grp, sc, identityTransform)
	require.NotNil(t, el)
	assert.Equal(t, "group", el.Type)
	assert.Equal(t, 72.0, el.Left)
	assert.Equal(t, 144.0, el.Width)

	// The child's coordinates come out absolute; the chOff/chExt scale of
	// two is already applied.
	require.Len(t, el.Children, 1)
	child := el.Children[0]
	assert.Equal(t, 144.0, child.Left)
	assert.Equal(t, 72.0, child.Top)
	assert.Equal(t, 36.0, child.Width)
	assert.Equal(t, 36.0, child.Height)

	// grpFill substitutes the group's own fill.
	require.NotNil(t, child.Fill)
	assert.Equal(t, "#00FF00", child.Fill.Value)
}

func TestConvertConnectorDefaultStroke(t *testing.T) {
	sc := testSlideContext(t)
	cxn := mustParse(t, `<cxnSp>
		<nvCxnSpPr><cNvPr id="7" name="Connector 1"/></nvCxnSpPr>
		<spPr><xfrm><off x="0" y="0"/><ext cx="914400" cy="0"/></xfrm></spPr>
	</cxnSp>`)

	el := convertConnector(cxn, sc, identityTransform)
	assert.Equal(t, "line", el.Type)
	require.NotNil(t, el.Stroke)
	assert.Equal(t, "#000000", el.Stroke.Color)
	assert.Equal(t, 1.0, el.Stroke.WidthPt)
}

func TestResolveStroke(t *testing.T) {
	sc := testSlideContext(t)

	assert.Nil(t, resolveStroke(nil, sc))
	assert.Nil(t, resolveStroke(mustParse(t, `<ln><noFill/></ln>`), sc))
	assert.Nil(t, resolveStroke(mustParse(t, `<ln/>`), sc))

	stroke := resolveStroke(mustParse(t,
		`<ln w="25400"><solidFill><srgbClr val="FF0000"/></solidFill><prstDash val="dash"/></ln>`), sc)
	require.NotNil(t, stroke)
	assert.Equal(t, "#FF0000", stroke.Color)
	assert.Equal(t, 2.0, stroke.WidthPt)
	assert.Equal(t, "dash", stroke.Dash)
}

func TestConvertShapeTreeDocumentOrder(t *testing.T) {
	sc := testSlideContext(t)
	spTree := mustParse(t, `<spTree>
		<sp>
			<nvSpPr><cNvPr id="1" name="First"/><nvPr/></nvSpPr>
			<spPr><prstGeom prst="rect"/></spPr>
		</sp>
		<cxnSp>
			<nvCxnSpPr><cNvPr id="2" name="Second"/></nvCxnSpPr>
			<spPr/>
		</cxnSp>
		<sp>
			<nvSpPr><cNvPr id="3" name="Third"/><nvPr/></nvSpPr>
			<spPr><prstGeom prst="rect"/></spPr>
		</sp>
	</spTree>`)

	elements := convertShapeTree(spTree, sc, nil, identityTransform)
	require.Len(t, elements, 3)
	assert.Equal(t, "First", elements[0].Name)
	assert.Equal(t, "Second", elements[1].Name)
	assert.Equal(t, "Third", elements[2].Name)
}

func TestConvertShapeMathRun(t *testing.T) {
	sc := testSlideContext(t)
	sp := mustParse(t, `<sp>
		<nvSpPr><cNvPr id="8" name="Equation"/><nvPr/></nvSpPr>
		<spPr><prstGeom prst="rect"/></spPr>
		<txBody><p>
			<oMath>
				<f><num><r><t>1</t></r></num><den><r><t>2</t></r></den></f>
			</oMath>
		</p></txBody>
	</sp>`)

	el := convertShape(sp, sc, nil, identityTransform)
	assert.Equal(t, `\frac{1}{2}`, el.Latex)
}
