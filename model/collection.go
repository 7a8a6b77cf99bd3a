package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

type ItemType string

const (
	ItemChapter ItemType = "chapter"
	ItemPage    ItemType = "page"
)

// DefaultChapterName is used for the chapter every new or emptied collection
// starts with.
const DefaultChapterName = "Kapitel 1"

// Item is one element of a collection: a chapter holding an ordered list of
// snippet references, or a single standalone page.
type Item struct {
	Type       ItemType `json:"type"`
	Name       string   `json:"name,omitempty"`
	SnippetIds []string `json:"snippetIds,omitempty"`
	SnippetId  string   `json:"snippetId,omitempty"`
}

func NewChapter(name string, ids ...string) Item {
	return Item{Type: ItemChapter, Name: name, SnippetIds: append([]string{}, ids...)}
}

func NewStandalonePage(id string) Item {
	return Item{Type: ItemPage, SnippetId: id}
}

func (i Item) IsChapter() bool { return i.Type == ItemChapter }

// PageCount is the number of content pages the item contributes.
func (i Item) PageCount() int {
	if i.IsChapter() {
		return len(i.SnippetIds)
	}
	return 1
}

// LegacyChapter is the chapters-only shape older collections were stored in.
type LegacyChapter struct {
	Name       string   `json:"name"`
	SnippetIds []string `json:"snippetIds"`
}

type Collection struct {
	Id            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Subtitle      string          `json:"untertitel,omitempty"`
	Author        string          `json:"author,omitempty"`
	Copyright     string          `json:"copyright,omitempty"`
	MasterCss     string          `json:"masterCss,omitempty"`
	PrintSettings *PrintSettings  `json:"pdfSettings,omitempty"`
	Items         []Item          `json:"items,omitempty"`
	Chapters      []LegacyChapter `json:"chapters,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// NewCollection returns a collection holding one empty default chapter.
func NewCollection(id, name string, now time.Time) *Collection {
	return &Collection{
		Id:        id,
		Name:      name,
		Items:     []Item{NewChapter(DefaultChapterName)},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DecodeCollection reads a stored collection in either the current or the
// legacy chapters-only shape and returns it migrated.
func DecodeCollection(data []byte) (*Collection, error) {
	c := &Collection{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	c.Migrate()
	return c, nil
}

// Migrate converts the legacy chapter list into chapter items and makes sure
// the item list is not empty. It reports whether anything changed; calling it
// on a migrated collection is a no-op.
func (c *Collection) Migrate() bool {
	changed := false
	if c.Items == nil {
		c.Items = make([]Item, 0, len(c.Chapters))
		for _, ch := range c.Chapters {
			c.Items = append(c.Items, NewChapter(ch.Name, ch.SnippetIds...))
		}
		c.Chapters = nil
		changed = true
	}
	if len(c.Items) == 0 {
		c.Items = append(c.Items, NewChapter(DefaultChapterName))
		changed = true
	}
	return changed
}

// Settings returns the normalized print settings, defaults when unset.
func (c *Collection) Settings() PrintSettings {
	if c.PrintSettings == nil {
		return DefaultPrintSettings()
	}
	return c.PrintSettings.Normalize()
}

// CountPages is the number of content pages the collection renders to.
func (c *Collection) CountPages() int {
	n := 0
	for _, item := range c.Items {
		n += item.PageCount()
	}
	return n
}

// ChapterCount is the number of chapter items.
func (c *Collection) ChapterCount() int {
	n := 0
	for _, item := range c.Items {
		if item.IsChapter() {
			n++
		}
	}
	return n
}

// PageOffset is the number of content pages before the item at index.
func (c *Collection) PageOffset(index int) int {
	n := 0
	for i := 0; i < index && i < len(c.Items); i++ {
		n += c.Items[i].PageCount()
	}
	return n
}

// ChapterNumber is the 1-based number of the chapter at index, 0 for
// standalone pages.
func (c *Collection) ChapterNumber(index int) int {
	if index < 0 || index >= len(c.Items) || !c.Items[index].IsChapter() {
		return 0
	}
	n := 0
	for i := 0; i <= index; i++ {
		if c.Items[i].IsChapter() {
			n++
		}
	}
	return n
}

// SnippetIds lists every referenced snippet in document order.
func (c *Collection) SnippetIds() []string {
	ids := make([]string, 0, c.CountPages())
	for _, item := range c.Items {
		if item.IsChapter() {
			ids = append(ids, item.SnippetIds...)
		} else {
			ids = append(ids, item.SnippetId)
		}
	}
	return ids
}

func (c *Collection) checkIndex(index int) error {
	if index < 0 || index >= len(c.Items) {
		return fmt.Errorf("item %d of %d: %w", index, len(c.Items), ErrIndexOutOfRange)
	}
	return nil
}

func (c *Collection) chapter(index int) (*Item, error) {
	if err := c.checkIndex(index); err != nil {
		return nil, err
	}
	item := &c.Items[index]
	if !item.IsChapter() {
		return nil, fmt.Errorf("item %d is a standalone page: %w", index, ErrInvalidTarget)
	}
	return item, nil
}

// MoveItem relocates the item at from so that it ends up at position to.
func (c *Collection) MoveItem(from, to int) error {
	if err := c.checkIndex(from); err != nil {
		return err
	}
	if err := c.checkIndex(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	item := c.Items[from]
	c.Items = slices.Delete(c.Items, from, from+1)
	c.Items = slices.Insert(c.Items, to, item)
	return nil
}

// MovePageAcrossChapters removes the reference at position from the source
// chapter and appends it to the target chapter.
func (c *Collection) MovePageAcrossChapters(source, position, target int) error {
	src, err := c.chapter(source)
	if err != nil {
		return err
	}
	if position < 0 || position >= len(src.SnippetIds) {
		return fmt.Errorf("page %d of chapter %d: %w", position, source, ErrIndexOutOfRange)
	}
	dst, err := c.chapter(target)
	if err != nil {
		return err
	}
	id := src.SnippetIds[position]
	src.SnippetIds = slices.Delete(src.SnippetIds, position, position+1)
	dst.SnippetIds = append(dst.SnippetIds, id)
	return nil
}

// MovePageWithinChapter reorders the references of one chapter.
func (c *Collection) MovePageWithinChapter(index, from, to int) error {
	ch, err := c.chapter(index)
	if err != nil {
		return err
	}
	n := len(ch.SnippetIds)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move %d -> %d in chapter of %d pages: %w", from, to, n, ErrIndexOutOfRange)
	}
	id := ch.SnippetIds[from]
	ch.SnippetIds = slices.Delete(ch.SnippetIds, from, from+1)
	ch.SnippetIds = slices.Insert(ch.SnippetIds, to, id)
	return nil
}

// AddChapter appends an empty chapter and returns its index. An empty name is
// replaced by "Kapitel N".
func (c *Collection) AddChapter(name string) int {
	if name == "" {
		name = fmt.Sprintf("Kapitel %d", c.ChapterCount()+1)
	}
	c.Items = append(c.Items, NewChapter(name))
	return len(c.Items) - 1
}

// AddPagesToChapter appends references to the chapter at index. Duplicates
// within ids are dropped; references already present in the chapter stay.
func (c *Collection) AddPagesToChapter(index int, ids ...string) error {
	ch, err := c.chapter(index)
	if err != nil {
		return err
	}
	ch.SnippetIds = append(ch.SnippetIds, dedupe(ids)...)
	return nil
}

// AddStandalonePages appends one standalone item per distinct id.
func (c *Collection) AddStandalonePages(ids ...string) {
	for _, id := range dedupe(ids) {
		c.Items = append(c.Items, NewStandalonePage(id))
	}
}

func (c *Collection) RenameChapter(index int, name string) error {
	ch, err := c.chapter(index)
	if err != nil {
		return err
	}
	ch.Name = name
	return nil
}

// RemoveItem deletes the item at index. A collection left without items gets
// the default chapter back.
func (c *Collection) RemoveItem(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}
	c.Items = slices.Delete(c.Items, index, index+1)
	if len(c.Items) == 0 {
		c.Items = append(c.Items, NewChapter(DefaultChapterName))
	}
	return nil
}

// RemovePage deletes one reference from the chapter at index.
func (c *Collection) RemovePage(index, position int) error {
	ch, err := c.chapter(index)
	if err != nil {
		return err
	}
	if position < 0 || position >= len(ch.SnippetIds) {
		return fmt.Errorf("page %d of chapter %d: %w", position, index, ErrIndexOutOfRange)
	}
	ch.SnippetIds = slices.Delete(ch.SnippetIds, position, position+1)
	return nil
}

// RemoveSnippetRefs drops every reference to a deleted snippet and reports
// whether the collection changed.
func (c *Collection) RemoveSnippetRefs(id string) bool {
	changed := false
	items := c.Items[:0]
	for _, item := range c.Items {
		if item.IsChapter() {
			kept := slices.DeleteFunc(item.SnippetIds, func(s string) bool { return s == id })
			if len(kept) != len(item.SnippetIds) {
				changed = true
			}
			item.SnippetIds = kept
		} else if item.SnippetId == id {
			changed = true
			continue
		}
		items = append(items, item)
	}
	c.Items = items
	if len(c.Items) == 0 {
		c.Items = append(c.Items, NewChapter(DefaultChapterName))
	}
	return changed
}

// Clone returns a deep copy.
func (c *Collection) Clone() *Collection {
	out := *c
	if c.PrintSettings != nil {
		ps := *c.PrintSettings
		out.PrintSettings = &ps
	}
	if c.Items != nil {
		out.Items = make([]Item, len(c.Items))
		for i, item := range c.Items {
			item.SnippetIds = slices.Clone(item.SnippetIds)
			out.Items[i] = item
		}
	}
	if c.Chapters != nil {
		out.Chapters = make([]LegacyChapter, len(c.Chapters))
		for i, ch := range c.Chapters {
			ch.SnippetIds = slices.Clone(ch.SnippetIds)
			out.Chapters[i] = ch
		}
	}
	return &out
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
