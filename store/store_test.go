package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pageforge/model"
)

func openAll(t *testing.T) map[string]Store {
	t.Helper()
	mem, err := OpenMemory(nil)
	require.NoError(t, err)
	sq, err := OpenSqlite(filepath.Join(t.TempDir(), "library.db"), nil)
	require.NoError(t, err)
	bd, err := OpenBadger(filepath.Join(t.TempDir(), "badger"), nil)
	require.NoError(t, err)
	stores := map[string]Store{"memory": mem, "sqlite": sq, "badger": bd}
	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, PutJSON(ctx, s, Snippets, "snip_a", model.Snippet{Id: "snip_a", Title: "A"}))
			require.NoError(t, PutJSON(ctx, s, Snippets, "snip_b", model.Snippet{Id: "snip_b", Title: "B"}))
			require.NoError(t, PutJSON(ctx, s, Collections, "col_a", model.Collection{Id: "col_a"}))

			got, err := GetJSON[model.Snippet](ctx, s, Snippets, "snip_a")
			require.NoError(t, err)
			assert.Equal(t, "A", got.Title)

			all, err := AllJSON[model.Snippet](ctx, s, Snippets)
			require.NoError(t, err)
			assert.Len(t, all, 2)

			require.NoError(t, PutJSON(ctx, s, Snippets, "snip_a", model.Snippet{Id: "snip_a", Title: "A2"}))
			got, err = GetJSON[model.Snippet](ctx, s, Snippets, "snip_a")
			require.NoError(t, err)
			assert.Equal(t, "A2", got.Title)

			require.NoError(t, s.Remove(ctx, Snippets, "snip_a"))
			_, err = s.Get(ctx, Snippets, "snip_a")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreRejectsUnknownName(t *testing.T) {
	for name, s := range openAll(t) {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, s.Put(context.Background(), "bogus", "x", []byte("{}")))
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(Options{Driver: "postgres"}, nil)
	assert.Error(t, err)
}

func TestSeedOnlyFillsEmptyStores(t *testing.T) {
	ctx := context.Background()
	s, err := OpenMemory(nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, PutJSON(ctx, s, Categories, "mine", model.Category{Id: "mine", Name: "Mine"}))
	require.NoError(t, Seed(ctx, s))

	cats, err := AllJSON[model.Category](ctx, s, Categories)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	tpls, err := AllJSON[model.PageTemplate](ctx, s, PageTemplates)
	require.NoError(t, err)
	assert.Len(t, tpls, len(DefaultPageTemplates))

	css, err := AllJSON[model.CssTemplate](ctx, s, CssTemplates)
	require.NoError(t, err)
	assert.Len(t, css, 2)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src, err := OpenMemory(nil)
	require.NoError(t, err)
	defer src.Close()
	require.NoError(t, PutJSON(ctx, src, Snippets, "snip_a", model.Snippet{Id: "snip_a", Title: "A"}))
	require.NoError(t, PutJSON(ctx, src, Tags, "t1", model.Tag{Id: "t1", Name: "x"}))

	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	dump, err := ExportAll(ctx, src, now)
	require.NoError(t, err)
	data, err := json.Marshal(dump)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 3, raw["version"])
	assert.Equal(t, "2024-03-05T10:00:00Z", raw["exportedAt"])
	assert.Len(t, raw[Snippets], 1)
	assert.Len(t, raw[Images], 0)

	dst, err := OpenMemory(nil)
	require.NoError(t, err)
	defer dst.Close()
	require.NoError(t, PutJSON(ctx, dst, Snippets, "snip_old", model.Snippet{Id: "snip_old"}))
	require.NoError(t, PutJSON(ctx, dst, Collections, "col_keep", model.Collection{Id: "col_keep"}))

	var back Dump
	require.NoError(t, json.Unmarshal(data, &back))
	delete(back.Stores, Collections)
	require.NoError(t, ImportAll(ctx, dst, &back))

	_, err = dst.Get(ctx, Snippets, "snip_old")
	assert.ErrorIs(t, err, ErrNotFound)
	got, err := GetJSON[model.Snippet](ctx, dst, Snippets, "snip_a")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Title)
	_, err = dst.Get(ctx, Collections, "col_keep")
	assert.NoError(t, err)
}

func TestImportReportsRecordsWithoutId(t *testing.T) {
	ctx := context.Background()
	s, err := OpenMemory(nil)
	require.NoError(t, err)
	defer s.Close()
	d := &Dump{Stores: map[string][]json.RawMessage{
		Tags: {json.RawMessage(`{"id":"t1"}`), json.RawMessage(`{"name":"orphan"}`)},
	}}
	err = ImportAll(ctx, s, d)
	assert.Error(t, err)
	_, err = s.Get(ctx, Tags, "t1")
	assert.NoError(t, err)
}
