package placeholder

import (
	"regexp"
	"strings"
	"time"
)

// Placeholder describes one recognized {{token}}.
type Placeholder struct {
	Key         string
	Label       string
	Description string
}

const (
	PageTitle  = "seitentitel"
	PageNumber = "seitenzahl"
	TotalPages = "gesamtseiten"
	Chapter    = "kapitel"
	ChapterNr  = "kapitelnr"
	Collection = "collection"
	Subtitle   = "untertitel"
	Author     = "autor"
	Copyright  = "copyright"
	Date       = "datum"
)

// Unnumbered is the value seitenzahl resolves to on the cover page.
const Unnumbered = ""

// Placeholders is the fixed set of recognized tokens.
var Placeholders = []Placeholder{
	{PageTitle, "Seitentitel", "Titel der aktuellen Seite"},
	{PageNumber, "Seitenzahl", "Aktuelle Seitennummer"},
	{TotalPages, "Gesamtseiten", "Gesamtzahl aller Seiten"},
	{Chapter, "Kapitel", "Name des aktuellen Kapitels"},
	{ChapterNr, "Kapitelnr", "Nummer des Kapitels (1, 2, 3…)"},
	{Collection, "Collection", "Name der Collection"},
	{Subtitle, "Untertitel", "Untertitel der Collection"},
	{Author, "Autor", "Autorname (aus Collection)"},
	{Copyright, "Copyright", "Copyright-Zeile"},
	{Date, "Datum", "Heutiges Datum"},
}

// Vars maps token keys to their values for one page.
type Vars map[string]string

var (
	tokenRe = regexp.MustCompile(`\{\{(\w+)\}\}`)
	imageRe = regexp.MustCompile(`pf://([a-zA-Z0-9_-]+)`)
)

// Lookup returns the description of a recognized token.
func Lookup(key string) (Placeholder, bool) {
	for _, p := range Placeholders {
		if p.Key == key {
			return p, true
		}
	}
	return Placeholder{}, false
}

// FormatDate renders t as DD.MM.YYYY.
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// Resolve substitutes tokens in markup with values from vars. Unknown tokens
// are left as they are; an absent or empty datum falls back to today.
func Resolve(markup string, vars Vars) string {
	return ResolveAt(markup, vars, time.Now())
}

// ResolveAt is Resolve with an explicit current time for the datum fallback.
func ResolveAt(markup string, vars Vars, now time.Time) string {
	if markup == "" {
		return markup
	}
	return tokenRe.ReplaceAllStringFunc(markup, func(match string) string {
		key := match[2 : len(match)-2]
		if key == Date && vars[Date] == "" {
			return FormatDate(now)
		}
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
}

const badgeStyle = "background:#ebf8ff;color:#2b6cb0;padding:1px 6px;border-radius:3px;" +
	"font-size:90%;font-family:monospace;border:1px dashed #3182ce"

// Highlight replaces recognized tokens with inline badges carrying the token
// label. Other tokens pass through.
func Highlight(markup string) string {
	if markup == "" {
		return markup
	}
	return tokenRe.ReplaceAllStringFunc(markup, func(match string) string {
		p, ok := Lookup(match[2 : len(match)-2])
		if !ok {
			return match
		}
		return `<span class="pf-ph" data-placeholder="` + p.Key + `" style="` + badgeStyle + `">` + p.Label + `</span>`
	})
}

// Tokens lists the distinct token keys used in markup, in order of first use.
func Tokens(markup string) []string {
	var keys []string
	seen := map[string]bool{}
	for _, m := range tokenRe.FindAllStringSubmatch(markup, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// ResolveImages replaces pf://alias references with the data URL stored for
// the alias. Aliases are matched case-insensitively; unknown ones stay.
func ResolveImages(markup string, images map[string]string) string {
	if markup == "" || len(images) == 0 {
		return markup
	}
	return imageRe.ReplaceAllStringFunc(markup, func(match string) string {
		if url, ok := images[strings.ToLower(match[len("pf://"):])]; ok && url != "" {
			return url
		}
		return match
	})
}

var aliasRe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// ImageAlias returns the alias an image is addressed by: its explicit alias,
// or its file name without extension with unsupported characters replaced.
func ImageAlias(alias, name string) string {
	if alias == "" {
		alias = name
		if i := strings.LastIndex(alias, "."); i > 0 {
			alias = alias[:i]
		}
		alias = aliasRe.ReplaceAllString(alias, "-")
	}
	return strings.ToLower(alias)
}
