package pptxjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mathOf(t *testing.T, inner string) string {
	t.Helper()
	return convertMath(mustParse(t, "<oMath>"+inner+"</oMath>"))
}

func TestConvertMathRuns(t *testing.T) {
	got := mathOf(t, `<r><t>a</t></r><r><t>+b</t></r>`)
	assert.Equal(t, "a+b", got)
}

func TestConvertMathFraction(t *testing.T) {
	got := mathOf(t, `<f>
		<num><r><t>x</t></r></num>
		<den><r><t>2</t></r></den>
	</f>`)
	assert.Equal(t, `\frac{x}{2}`, got)
}

func TestConvertMathScripts(t *testing.T) {
	assert.Equal(t, "{x}^{2}", mathOf(t, `<sSup><e><r><t>x</t></r></e><sup><r><t>2</t></r></sup></sSup>`))
	assert.Equal(t, "{a}_{i}", mathOf(t, `<sSub><e><r><t>a</t></r></e><sub><r><t>i</t></r></sub></sSub>`))
	assert.Equal(t, "{a}_{i}^{2}", mathOf(t,
		`<sSubSup><e><r><t>a</t></r></e><sub><r><t>i</t></r></sub><sup><r><t>2</t></r></sup></sSubSup>`))
}

func TestConvertMathRadical(t *testing.T) {
	assert.Equal(t, `\sqrt{x}`, mathOf(t, `<rad><e><r><t>x</t></r></e></rad>`))
	assert.Equal(t, `\sqrt[3]{x}`, mathOf(t, `<rad>
		<deg><r><t>3</t></r></deg>
		<e><r><t>x</t></r></e>
	</rad>`))
	// degHide suppresses the index even when a deg element exists.
	assert.Equal(t, `\sqrt{x}`, mathOf(t, `<rad>
		<radPr><degHide val="1"/></radPr>
		<deg><r><t>3</t></r></deg>
		<e><r><t>x</t></r></e>
	</rad>`))
}

func TestConvertMathNary(t *testing.T) {
	got := mathOf(t, `<nary>
		<naryPr><chr val="∑"/></naryPr>
		<sub><r><t>i=1</t></r></sub>
		<sup><r><t>n</t></r></sup>
		<e><r><t>i</t></r></e>
	</nary>`)
	assert.Equal(t, `\sum_{i=1}^{n}{i}`, got)

	// No chr defaults to the integral.
	got = mathOf(t, `<nary><e><r><t>f</t></r></e></nary>`)
	assert.Equal(t, `\int{f}`, got)
}

func TestConvertMathDelimitersAndMatrix(t *testing.T) {
	got := mathOf(t, `<d>
		<dPr><begChr val="{"/><endChr val="}"/></dPr>
		<e><r><t>x</t></r></e>
	</d>`)
	assert.Equal(t, `\left\{x\right\}`, got)

	got = mathOf(t, `<m>
		<mr><e><r><t>1</t></r></e><e><r><t>0</t></r></e></mr>
		<mr><e><r><t>0</t></r></e><e><r><t>1</t></r></e></mr>
	</m>`)
	assert.Equal(t, `\begin{matrix}1 & 0 \\ 0 & 1\end{matrix}`, got)
}

func TestConvertMathAccentsAndBars(t *testing.T) {
	assert.Equal(t, `\hat{x}`, mathOf(t, `<acc><e><r><t>x</t></r></e></acc>`))
	assert.Equal(t, `\overline{x}`, mathOf(t, `<bar>
		<barPr><pos val="top"/></barPr>
		<e><r><t>x</t></r></e>
	</bar>`))
	assert.Equal(t, `\underline{x}`, mathOf(t, `<bar><e><r><t>x</t></r></e></bar>`))
	assert.Equal(t, `\boxed{y}`, mathOf(t, `<borderBox><e><r><t>y</t></r></e></borderBox>`))
}

func TestConvertMathFunctionAndLimits(t *testing.T) {
	got := mathOf(t, `<func>
		<fName><r><t>sin</t></r></fName>
		<e><r><t>x</t></r></e>
	</func>`)
	assert.Equal(t, "sin{x}", got)

	got = mathOf(t, `<limLow>
		<e><r><t>lim</t></r></e>
		<lim><r><t>x→0</t></r></lim>
	</limLow>`)
	assert.Equal(t, "lim_{x→0}", got)
}

func TestConvertMathUnknownKind(t *testing.T) {
	assert.Equal(t, "", convertMath(mustParse(t, `<argPr/>`)))
	assert.Equal(t, "", convertMath(nil))

	// Unknown children inside a known container contribute nothing.
	assert.Equal(t, "ab", mathOf(t, `<r><t>a</t></r><ctrlPr/><r><t>b</t></r>`))
}
