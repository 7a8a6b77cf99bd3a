package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Collection {
	c := NewCollection("col_1", "Workshop", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	c.Items = []Item{
		NewChapter("A", "a1", "a2"),
		NewStandalonePage("s1"),
		NewChapter("B", "b1"),
	}
	return c
}

func TestNewCollectionHasDefaultChapter(t *testing.T) {
	c := NewCollection("col_1", "x", time.Now())
	require.Len(t, c.Items, 1)
	assert.Equal(t, ItemChapter, c.Items[0].Type)
	assert.Equal(t, DefaultChapterName, c.Items[0].Name)
	assert.Zero(t, c.CountPages())
}

func TestCountPages(t *testing.T) {
	c := sample()
	assert.Equal(t, 4, c.CountPages())
	assert.Equal(t, []string{"a1", "a2", "s1", "b1"}, c.SnippetIds())
	assert.Equal(t, 3, c.PageOffset(2))
	assert.Equal(t, 1, c.ChapterNumber(0))
	assert.Equal(t, 0, c.ChapterNumber(1))
	assert.Equal(t, 2, c.ChapterNumber(2))
}

func TestMoveItem(t *testing.T) {
	c := sample()
	require.NoError(t, c.MoveItem(0, 2))
	assert.Equal(t, "s1", c.Items[0].SnippetId)
	assert.Equal(t, "B", c.Items[1].Name)
	assert.Equal(t, "A", c.Items[2].Name)

	before := c.Clone()
	assert.ErrorIs(t, c.MoveItem(-1, 0), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.MoveItem(0, 3), ErrIndexOutOfRange)
	assert.Equal(t, before, c)
}

func TestMovePageAcrossChapters(t *testing.T) {
	c := sample()
	require.NoError(t, c.MovePageAcrossChapters(0, 0, 2))
	assert.Equal(t, []string{"a2"}, c.Items[0].SnippetIds)
	assert.Equal(t, []string{"b1", "a1"}, c.Items[2].SnippetIds)

	before := c.Clone()
	assert.ErrorIs(t, c.MovePageAcrossChapters(0, 0, 1), ErrInvalidTarget)
	assert.ErrorIs(t, c.MovePageAcrossChapters(1, 0, 0), ErrInvalidTarget)
	assert.ErrorIs(t, c.MovePageAcrossChapters(0, 5, 2), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.MovePageAcrossChapters(0, 0, 9), ErrIndexOutOfRange)
	assert.Equal(t, before, c)
}

func TestMovePageWithinChapter(t *testing.T) {
	c := sample()
	require.NoError(t, c.MovePageWithinChapter(0, 1, 0))
	assert.Equal(t, []string{"a2", "a1"}, c.Items[0].SnippetIds)
	assert.ErrorIs(t, c.MovePageWithinChapter(0, 0, 2), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.MovePageWithinChapter(1, 0, 0), ErrInvalidTarget)
}

func TestAddPages(t *testing.T) {
	c := sample()
	require.NoError(t, c.AddPagesToChapter(2, "x", "x", "b1"))
	assert.Equal(t, []string{"b1", "x", "b1"}, c.Items[2].SnippetIds)
	assert.ErrorIs(t, c.AddPagesToChapter(1, "x"), ErrInvalidTarget)

	c.AddStandalonePages("p", "p", "q")
	assert.Len(t, c.Items, 5)
	assert.Equal(t, "q", c.Items[4].SnippetId)

	idx := c.AddChapter("")
	assert.Equal(t, "Kapitel 3", c.Items[idx].Name)
}

func TestRemoveOperations(t *testing.T) {
	c := sample()
	require.NoError(t, c.RemovePage(0, 1))
	assert.Equal(t, []string{"a1"}, c.Items[0].SnippetIds)
	require.NoError(t, c.RenameChapter(0, "Intro"))
	assert.Equal(t, "Intro", c.Items[0].Name)
	assert.ErrorIs(t, c.RenameChapter(1, "x"), ErrInvalidTarget)

	for len(c.Items) > 1 {
		require.NoError(t, c.RemoveItem(0))
	}
	require.NoError(t, c.RemoveItem(0))
	require.Len(t, c.Items, 1)
	assert.Equal(t, DefaultChapterName, c.Items[0].Name)
}

func TestRemoveSnippetRefs(t *testing.T) {
	c := sample()
	c.Items[2].SnippetIds = append(c.Items[2].SnippetIds, "s1")
	assert.True(t, c.RemoveSnippetRefs("s1"))
	assert.Len(t, c.Items, 2)
	assert.Equal(t, []string{"b1"}, c.Items[1].SnippetIds)
	assert.False(t, c.RemoveSnippetRefs("missing"))
}

func TestMigrateLegacyShape(t *testing.T) {
	raw := `{"id":"col_1","name":"Old","chapters":[{"name":"Eins","snippetIds":["a","b"]},{"name":"Zwei"}]}`
	c, err := DecodeCollection([]byte(raw))
	require.NoError(t, err)
	require.Len(t, c.Items, 2)
	assert.Equal(t, NewChapter("Eins", "a", "b"), c.Items[0])
	assert.Equal(t, ItemChapter, c.Items[1].Type)
	assert.Empty(t, c.Items[1].SnippetIds)
	assert.Nil(t, c.Chapters)

	before := c.Clone()
	assert.False(t, c.Migrate())
	assert.Equal(t, before, c)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	again, err := DecodeCollection(out)
	require.NoError(t, err)
	assert.Equal(t, c.Items[0], again.Items[0])
}

func TestMigrateEmptyLegacy(t *testing.T) {
	c, err := DecodeCollection([]byte(`{"id":"c","name":"n"}`))
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, DefaultChapterName, c.Items[0].Name)
}

func TestSettingsNormalize(t *testing.T) {
	c := sample()
	assert.Equal(t, DefaultPrintSettings(), c.Settings())
	c.PrintSettings = &PrintSettings{StartNr: -3, TocStyle: "fancy", CcStyle: ChapterCoverStripe}
	s := c.Settings()
	assert.Equal(t, 1, s.StartNr)
	assert.Equal(t, TocClassic, s.TocStyle)
	assert.Equal(t, ChapterCoverStripe, s.CcStyle)
}

func TestSnippetVersions(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := &Snippet{Id: "snip_1", Title: "Intro", HtmlContent: "<p>v1</p>", Tags: []string{"Workshop"}, Version: 1}
	s.PushVersion("first", now)
	assert.Equal(t, 2, s.Version)
	require.Len(t, s.Versions, 1)
	assert.Equal(t, "<p>v1</p>", s.Versions[0].HtmlContent)
	assert.True(t, s.Matches("workshop"))
	assert.True(t, s.Matches("V1"))
	assert.False(t, s.Matches("absent"))
}
