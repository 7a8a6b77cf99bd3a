package library

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageforge/model"
	"pageforge/store"
)

var fixed = time.Date(2024, 5, 17, 9, 0, 0, 0, time.UTC)

func newLibrary(t *testing.T) *Library {
	t.Helper()
	s, err := store.OpenMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return New(s, nil).WithClock(func() time.Time { return fixed })
}

func TestSaveSnippetAssignsId(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	sn := &model.Snippet{Title: "Intro", HtmlContent: "<p>x</p>"}
	require.NoError(t, lib.SaveSnippet(ctx, sn))
	assert.True(t, strings.HasPrefix(sn.Id, "snip_"))
	assert.Equal(t, 1, sn.Version)
	assert.Equal(t, model.StatusDraft, sn.Status)
	assert.Equal(t, fixed, sn.CreatedAt)

	got, err := lib.Snippet(ctx, sn.Id)
	require.NoError(t, err)
	assert.Equal(t, "Intro", got.Title)
}

func TestNewVersion(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	sn := &model.Snippet{Title: "A", HtmlContent: "<p>v1</p>"}
	require.NoError(t, lib.SaveSnippet(ctx, sn))

	got, err := lib.NewVersion(ctx, sn.Id, "erste Fassung")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	require.Len(t, got.Versions, 1)
	assert.Equal(t, 1, got.Versions[0].Version)
	assert.Equal(t, "<p>v1</p>", got.Versions[0].HtmlContent)
	assert.Equal(t, "erste Fassung", got.Versions[0].Note)

	_, err = lib.NewVersion(ctx, "snip_missing", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	for _, sn := range []*model.Snippet{
		{Title: "Deckblatt", HtmlContent: "<h1>x</h1>"},
		{Title: "Glossar", Tags: []string{"Anhang"}},
		{Title: "Übung", HtmlContent: "<p>Reflexion</p>"},
	} {
		require.NoError(t, lib.SaveSnippet(ctx, sn))
	}
	cases := map[string]int{"deck": 1, "anhang": 1, "REFLEX": 1, "": 3, "zzz": 0}
	for q, n := range cases {
		got, err := lib.Search(ctx, q)
		require.NoError(t, err)
		assert.Len(t, got, n, q)
	}
}

func TestDeleteSnippetCascades(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	a := &model.Snippet{Title: "A"}
	b := &model.Snippet{Title: "B"}
	require.NoError(t, lib.SaveSnippet(ctx, a))
	require.NoError(t, lib.SaveSnippet(ctx, b))

	c, err := lib.CreateCollection(ctx, "Buch")
	require.NoError(t, err)
	_, err = lib.UpdateCollection(ctx, c.Id, func(c *model.Collection) error {
		c.AddStandalonePages(a.Id)
		return c.AddPagesToChapter(0, a.Id, b.Id)
	})
	require.NoError(t, err)

	require.NoError(t, lib.DeleteSnippet(ctx, a.Id))
	got, err := lib.Collection(ctx, c.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{b.Id}, got.SnippetIds())

	assert.ErrorIs(t, lib.DeleteSnippet(ctx, a.Id), store.ErrNotFound)
}

func TestUpdateCollectionRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	c, err := lib.CreateCollection(ctx, "Buch")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultChapterName, c.Items[0].Name)

	_, err = lib.UpdateCollection(ctx, c.Id, func(c *model.Collection) error {
		c.AddChapter("Zwei")
		return c.MoveItem(0, 5)
	})
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)

	got, err := lib.Collection(ctx, c.Id)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestMigrateAll(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	legacy := []byte(`{"id":"col_old","name":"Alt","chapters":[{"name":"K1","snippetIds":["s1","s2"]}]}`)
	require.NoError(t, lib.Store().Put(ctx, store.Collections, "col_old", legacy))

	n, err := lib.MigrateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = lib.MigrateAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	c, err := lib.Collection(ctx, "col_old")
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, model.NewChapter("K1", "s1", "s2"), c.Items[0])
	assert.Nil(t, c.Chapters)
}

func TestDeleteCollection(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	c, err := lib.CreateCollection(ctx, "Weg")
	require.NoError(t, err)
	require.NoError(t, lib.DeleteCollection(ctx, c.Id))
	_, err = lib.Collection(ctx, c.Id)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	dir := t.TempDir()

	htmlPath := filepath.Join(dir, "seite.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(`<html><head><title>Mein Titel</title></head><body><p>x</p></body></html>`), 0644))
	sn, err := lib.ImportFile(ctx, htmlPath, "content")
	require.NoError(t, err)
	assert.Equal(t, "Mein Titel", sn.Title)
	assert.Equal(t, "content", sn.Category)

	mdPath := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(mdPath, []byte("# Notizen\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"), 0644))
	sn, err = lib.ImportFile(ctx, mdPath, "")
	require.NoError(t, err)
	assert.Equal(t, "Notizen", sn.Title)
	assert.Contains(t, sn.HtmlContent, "<table>")
	assert.Contains(t, sn.HtmlContent, "<title>Notizen</title>")

	_, err = lib.ImportFile(ctx, filepath.Join(dir, "bild.png"), "")
	assert.Error(t, err)
}

func TestImportURL(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pages/glossar.html" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body><p>Begriffe</p></body></html>`)
	}))
	defer srv.Close()

	sn, err := lib.ImportURL(ctx, srv.URL+"/pages/glossar.html", "glossary")
	require.NoError(t, err)
	assert.Equal(t, "glossar", sn.Title)
	assert.Contains(t, sn.HtmlContent, "Begriffe")

	_, err = lib.ImportURL(ctx, srv.URL+"/missing", "")
	assert.Error(t, err)

	_, err = lib.ImportURL(ctx, "not a url", "")
	assert.Error(t, err)
}

func TestImagesAndSource(t *testing.T) {
	ctx := context.Background()
	lib := newLibrary(t)
	img, err := lib.AddImage(ctx, "Mein Logo.PNG", []byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	assert.Equal(t, "mein-logo", img.Alias)
	assert.True(t, strings.HasPrefix(img.DataUrl, "data:image/png;base64,"))

	_, err = lib.AddImage(ctx, "notes.txt", []byte("hello"))
	assert.Error(t, err)

	sn := &model.Snippet{Title: "A", HtmlContent: `<img src="pf://Mein-Logo">`}
	require.NoError(t, lib.SaveSnippet(ctx, sn))
	c, err := lib.CreateCollection(ctx, "Buch")
	require.NoError(t, err)
	require.NoError(t, c.AddPagesToChapter(0, sn.Id, "snip_gone"))

	src, err := lib.LoadSource(ctx, c)
	require.NoError(t, err)
	assert.Len(t, src.Snippets, 1)
	assert.Equal(t, img.DataUrl, src.Images["mein-logo"])
}
