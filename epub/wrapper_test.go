package epub

import (
	"archive/zip"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageforge/compose"
	"pageforge/model"
)

var fixed = time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)

func document(t *testing.T) *compose.Document {
	t.Helper()
	c := &model.Collection{
		Id:        "col_1",
		Name:      "Mein Workbook",
		Author:    "Ada",
		Copyright: "© Ada",
		Items: []model.Item{
			model.NewChapter("Intro", "a", "b"),
			model.NewStandalonePage("c"),
		},
		PrintSettings: &model.PrintSettings{Cover: true, StartNr: 1, ChapterCovers: true},
	}
	src := compose.Source{
		Snippets: map[string]*model.Snippet{
			"a": {Id: "a", Title: "Titel", HtmlContent: `<h1>{{collection}}</h1>`},
			"b": {Id: "b", Title: "Seite B", HtmlContent: `<p>B <img src="pf://logo"/></p>`},
			"c": {Id: "c", Title: "Anhang", HtmlContent: `<p>C</p>`},
		},
		Images: map[string]string{"logo": "data:image/png;base64,iVBORw0KGgo="},
	}
	doc, err := compose.NewBuilder(nil).WithClock(func() time.Time { return fixed }).
		Build(context.Background(), c, c.Settings(), src)
	require.NoError(t, err)
	return doc
}

func readZip(t *testing.T, path string) (*zip.ReadCloser, map[string]string) {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	files := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		files[f.Name] = string(data)
	}
	return r, files
}

func TestPack(t *testing.T) {
	dir := t.TempDir()
	path, err := NewPacker(nil).WithClock(func() time.Time { return fixed }).Pack(context.Background(), document(t), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mein-workbook.epub"), path)

	r, files := readZip(t, path)
	require.NotEmpty(t, r.File)
	assert.Equal(t, "mimetype", r.File[0].Name)
	assert.Equal(t, zip.Store, r.File[0].Method)
	assert.Equal(t, "application/epub+zip", files["mimetype"])

	assert.Contains(t, files, "META-INF/container.xml")
	assert.Contains(t, files, "style.css")
	assert.Contains(t, files, "toc.ncx")

	// cover, chapter cover, b, standalone c
	for _, name := range []string{"page-000.xhtml", "page-001.xhtml", "page-002.xhtml", "page-003.xhtml"} {
		assert.Contains(t, files, "OEBPS/Text/"+name)
	}
	assert.NotContains(t, files, "OEBPS/Text/page-004.xhtml")

	opf := files["content.opf"]
	assert.Contains(t, opf, "<dc:title>Mein Workbook</dc:title>")
	assert.Contains(t, opf, "<dc:creator>Ada</dc:creator>")
	assert.Contains(t, opf, "2024-05-17T09:00:00Z")
	assert.Contains(t, opf, `<itemref idref="page-003"></itemref>`)
	assert.Contains(t, opf, `media-type="image/png"`)

	pageB := files["OEBPS/Text/page-002.xhtml"]
	assert.Contains(t, pageB, `src="../Images/page-002-00.png"`)
	assert.NotContains(t, pageB, "data:image")
	assert.Contains(t, files, "OEBPS/Images/page-002-00.png")

	ncx := files["toc.ncx"]
	assert.Contains(t, ncx, "<text>Intro</text>")
	assert.Contains(t, ncx, "<text>Anhang</text>")
	assert.Less(t, strings.Index(ncx, "Intro"), strings.Index(ncx, "Seite B"))

	nav := files["OEBPS/Text/contents.xhtml"]
	assert.Contains(t, nav, `<a href="page-002.xhtml">Seite B</a>`)
}

func TestDecodeDataURL(t *testing.T) {
	media, data, err := decodeDataURL("data:image/gif;base64,R0lG")
	require.NoError(t, err)
	assert.Equal(t, "image/gif", media)
	assert.Equal(t, []byte("GIF"), data)

	_, _, err = decodeDataURL("data:text/plain,hello")
	assert.Error(t, err)
}
