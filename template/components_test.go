package template

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageforge/layout"
	"pageforge/model"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestPage(t *testing.T) {
	out := render(t, Page(PageData{Scope: "pf-s2", Class: "dark", Style: `color:"red"`, Css: "#pf-s2 h1 { x: y; }", Body: "<h1>Hi</h1>"}))
	assert.Equal(t, `<div class="pf-page dark" id="pf-s2" style="color:&#34;red&#34;"><style>#pf-s2 h1 { x: y; }</style><h1>Hi</h1></div>`, out)

	out = render(t, Page(PageData{Scope: "pf-s0", Body: "x"}))
	assert.Equal(t, `<div class="pf-page" id="pf-s0"><style></style>x</div>`, out)
}

func TestTocPage(t *testing.T) {
	out := render(t, TocPage(TocData{
		Scope:      "pf-s1",
		Css:        "#pf-s1 .toc-page { color: red; }",
		Collection: "Work & Play",
		Copyright:  "© Ada",
		Entries: []layout.TocEntry{
			{Title: "Intro", DisplayNr: 2, IsChapter: true},
			{Title: "Seite <1>", DisplayNr: 2},
		},
		PageNr: "1",
		Total:  "3",
	}))
	assert.True(t, strings.HasPrefix(out, `<div class="pf-page pf-toc" id="pf-s1"><style>#pf-s1 .toc-page { color: red; }</style>`))
	assert.Contains(t, out, `Inhaltsverzeichnis<div class="toc-sub">Work &amp; Play</div>`)
	assert.Contains(t, out, `<div class="toc-chapter">Intro</div>`)
	assert.Contains(t, out, `<span class="toc-entry-title">Seite &lt;1&gt;</span><span class="toc-entry-nr">2</span>`)
	assert.Contains(t, out, "<span>Seite 1 / 3</span>")
}

func TestVariantCSS(t *testing.T) {
	assert.Contains(t, TocCSS(model.TocModern), "background:#003366;margin:-50px")
	assert.Equal(t, tocStyles["classic"], TocCSS("fancy"))
	assert.Equal(t, chapterCoverStyles["stripe"], ChapterCoverCSS(model.ChapterCoverStripe))
	assert.Equal(t, chapterCoverStyles["bold"], ChapterCoverCSS(""))
}

func TestChapterCoverPage(t *testing.T) {
	out := render(t, ChapterCoverPage(ChapterCoverData{
		Scope: "pf-s3", Css: "#pf-s3 .cc-nr { display: none; }", ChapterName: "Grundlagen", ChapterNr: 2,
		Collection: "Workshop", Subtitle: "Tag 1", Copyright: "©", Date: "01.02.2024", PageNr: "4", Total: "9",
	}))
	assert.True(t, strings.HasPrefix(out, `<div class="pf-page pf-chapter-cover" id="pf-s3"><style>#pf-s3 .cc-nr { display: none; }</style>`))
	assert.Contains(t, out, `<div class="cc-label">Kapitel 2</div>`)
	assert.Contains(t, out, `<div class="cc-title">Grundlagen</div>`)
	assert.Contains(t, out, `<div class="cc-sub">Workshop · Tag 1</div>`)
	assert.Contains(t, out, `<span>01.02.2024</span><span>Seite 4 / 9</span>`)

	out = render(t, ChapterCoverPage(ChapterCoverData{Collection: "Workshop", ChapterNr: 1}))
	assert.Contains(t, out, `<div class="cc-sub">Workshop </div>`)
}

func TestDocument(t *testing.T) {
	out := render(t, Document("A <b>", []string{"<div>1</div>", "<div>2</div>"}))
	assert.True(t, strings.HasPrefix(out, `<!doctype html><html lang="de"><head><meta charset="UTF-8"><title>`))
	assert.Contains(t, out, "<title>A &lt;b&gt;</title>")
	assert.Contains(t, out, ".pf-page:last-child{page-break-after:auto}")
	assert.Contains(t, out, "<body><div>1</div><div>2</div></body>")
}

func TestContentOPF(t *testing.T) {
	out := render(t, ContentOPF("book-id",
		&model.PackageMetadata{Titles: []model.DCValue{{Value: "T"}}},
		&model.Manifest{Items: []model.ManifestItem{{ID: "p0", Link: "OEBPS/Text/p0.xhtml", Media: "application/xhtml+xml"}}},
		&model.Spine{Toc: "ncx", Items: []model.SpineItem{{IDref: "p0"}}},
	))
	assert.Contains(t, out, `unique-identifier="book-id"`)
	assert.Contains(t, out, `<dc:title>T</dc:title>`)
	assert.Contains(t, out, `<item id="p0" href="OEBPS/Text/p0.xhtml" media-type="application/xhtml+xml"></item>`)
	assert.Contains(t, out, `<spine toc="ncx"><itemref idref="p0"></itemref></spine>`)
}

func TestContentXHTML(t *testing.T) {
	out := render(t, ContentXHTML("A & B", "<p>x</p>"))
	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!DOCTYPE html>\n<html xmlns="))
	assert.Contains(t, out, `<title>A &amp; B</title><link href="../../style.css" rel="stylesheet" type="text/css"/></head>`)
	assert.True(t, strings.HasSuffix(out, "<body><p>x</p></body></html>"))
}
