package cssscope

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScopeSelector(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"body", "#s1"},
		{"HTML", "#s1"},
		{"*", "#s1"},
		{":root", "#s1"},
		{"body h1", "#s1 h1"},
		{"html  .box > p", "#s1 .box > p"},
		{"h1", "#s1 h1"},
		{".a, body, p span", "#s1 .a, #s1, #s1 p span"},
		{"bodyguard", "#s1 bodyguard"},
		{"#s1 h1", "#s1 h1"},
		{"#s1", "#s1"},
		{"div:not(.a, .b)", "#s1 div:not(.a, .b)"},
		{"p:is(h1, h2) span, a[title=\"x,y\"]", "#s1 p:is(h1, h2) span, #s1 a[title=\"x,y\"]"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ScopeSelector(tt.in, "#s1"))
		})
	}
}

func TestRewriteBodyAndHeading(t *testing.T) {
	out, err := Rewrite("body { color: red } h1 { font-size: 2em }", "#s1")
	require.NoError(t, err)
	assert.Equal(t, "#s1 { color: red; }\n#s1 h1 { font-size: 2em; }", out)
}

func TestRewriteSelectorList(t *testing.T) {
	out, err := Rewrite("h1, h2 , body p { margin: 0; padding: 1px 2px !important }", ".x")
	require.NoError(t, err)
	assert.Equal(t, ".x h1, .x h2, .x p { margin: 0; padding: 1px 2px !important; }", out)
}

func TestRewriteKeepsStrings(t *testing.T) {
	out, err := Rewrite(`h1::before { content: "Kapitel  1 -   "; } p[title="a  b"] { color: red }`, "#pf-s0")
	require.NoError(t, err)
	assert.Equal(t, "#pf-s0 h1::before { content: \"Kapitel  1 -   \"; }\n#pf-s0 p[title=\"a  b\"] { color: red; }", out)
}

func TestRewriteFunctionalPseudoClass(t *testing.T) {
	out, err := Rewrite("div:not(.a, .b), li { color: red }", "#s1")
	require.NoError(t, err)
	assert.Equal(t, "#s1 div:not(.a,.b), #s1 li { color: red; }", out)
}

func TestRewriteMedia(t *testing.T) {
	out, err := Rewrite("@media print { body { color: black } .no-print { display: none } }", "#s2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "@media print {"), out)
	assert.Contains(t, out, "#s2 { color: black; }")
	assert.Contains(t, out, "#s2 .no-print { display: none; }")
	assert.True(t, strings.HasSuffix(out, "}"), out)
}

func TestRewriteKeepsOtherAtRules(t *testing.T) {
	out, err := Rewrite("@font-face { font-family: Foo; src: url(foo.woff) } @keyframes spin { from { opacity: 0 } to { opacity: 1 } } p { color: blue }", "#s3")
	require.NoError(t, err)
	assert.Contains(t, out, "@font-face {")
	assert.Contains(t, out, "font-family: Foo;")
	assert.Contains(t, out, "from { opacity: 0; }")
	assert.NotContains(t, out, "#s3 from")
	assert.Contains(t, out, "#s3 p { color: blue; }")
}

func TestRewriteIdempotent(t *testing.T) {
	in := "html, body { margin: 0 } .card h2 { color: #333 } @media (max-width: 600px) { * { font-size: 12px } }"
	once, err := Rewrite(in, "#pf-s4")
	require.NoError(t, err)
	twice, err := Rewrite(once, "#pf-s4")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
	assert.NotContains(t, twice, "#pf-s4 #pf-s4")
}

func TestRewriteEmpty(t *testing.T) {
	out, err := Rewrite("  \n ", "#s1")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestMalformedFallsBack(t *testing.T) {
	iso := New(zap.NewNop())
	for _, in := range []string{
		"h1 { color: red",
		"h1 color: red }",
		"p { content: \"open }",
		"/* never closed",
	} {
		_, err := Rewrite(in, "#s1")
		assert.ErrorIs(t, err, ErrStyleParse, in)
		assert.Equal(t, in, iso.Isolate(in, "#s1"))
	}
}

func TestIsolateNilLogger(t *testing.T) {
	assert.Equal(t, "#s9 { color: red; }", New(nil).Isolate("body{color:red}", "#s9"))
}

func TestBalancedIgnoresBracesInStrings(t *testing.T) {
	out, err := Rewrite(`a::after { content: "}" }`, "#s1")
	require.NoError(t, err)
	assert.Equal(t, `#s1 a::after { content: "}"; }`, out)
}
