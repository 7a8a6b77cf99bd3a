package placeholder

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)

func TestResolve(t *testing.T) {
	out := ResolveAt("<h1>{{seitentitel}}</h1><p>{{seitenzahl}}/{{gesamtseiten}} {{unknown}}</p>",
		Vars{PageTitle: "Intro", PageNumber: "3", TotalPages: "9"}, fixed)
	assert.Equal(t, "<h1>Intro</h1><p>3/9 {{unknown}}</p>", out)
}

func TestResolveDateFallback(t *testing.T) {
	assert.Equal(t, "07.03.2024", ResolveAt("{{datum}}", nil, fixed))
	assert.Equal(t, "07.03.2024", ResolveAt("{{datum}}", Vars{Date: ""}, fixed))
	assert.Equal(t, "01.01.2000", ResolveAt("{{datum}}", Vars{Date: "01.01.2000"}, fixed))
	assert.Regexp(t, `^\d{2}\.\d{2}\.\d{4}$`, Resolve("{{datum}}", nil))
}

func TestResolveEmptyValueIsSubstituted(t *testing.T) {
	assert.Equal(t, "[]", ResolveAt("[{{seitenzahl}}]", Vars{PageNumber: Unnumbered}, fixed))
}

func TestResolveAllRecognized(t *testing.T) {
	var b strings.Builder
	vars := Vars{}
	for _, p := range Placeholders {
		b.WriteString("<span>{{" + p.Key + "}}</span>")
		vars[p.Key] = "v-" + p.Key
	}
	out := ResolveAt(b.String(), vars, fixed)
	assert.NotContains(t, out, "{{")
	assert.Empty(t, Tokens(out))
}

func TestHighlight(t *testing.T) {
	out := Highlight("{{kapitel}} {{datum}} {{other}}")
	assert.Contains(t, out, `data-placeholder="kapitel"`)
	assert.Contains(t, out, ">Kapitel</span>")
	assert.Contains(t, out, ">Datum</span>")
	assert.Contains(t, out, "{{other}}")
	assert.NotContains(t, out, "{{kapitel}}")
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Tokens("{{a}} {{b}} {{a}}"))
}

func TestResolveImages(t *testing.T) {
	images := map[string]string{"logo": "data:image/png;base64,AAA"}
	out := ResolveImages(`<img src="pf://Logo"><img src="pf://missing">`, images)
	assert.Equal(t, `<img src="data:image/png;base64,AAA"><img src="pf://missing">`, out)
}

func TestImageAlias(t *testing.T) {
	assert.Equal(t, "firmen-logo-2", ImageAlias("", "Firmen Logo 2.PNG"))
	assert.Equal(t, "hero", ImageAlias("Hero", "x.png"))
}

func TestLookup(t *testing.T) {
	p, ok := Lookup(ChapterNr)
	require.True(t, ok)
	assert.Equal(t, "Kapitelnr", p.Label)
	_, ok = Lookup("nope")
	assert.False(t, ok)
}
