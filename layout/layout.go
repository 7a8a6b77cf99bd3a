// Package layout expands a collection into the flat, numbered page sequence
// of its print document.
package layout

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"go.uber.org/multierr"

	"pageforge/model"
	"pageforge/placeholder"
)

type Kind int

const (
	KindCover Kind = iota
	KindToc
	KindChapterCover
	KindPage
)

func (k Kind) String() string {
	switch k {
	case KindCover:
		return "cover"
	case KindToc:
		return "toc"
	case KindChapterCover:
		return "chapter-cover"
	case KindPage:
		return "page"
	}
	return "unknown"
}

// TocTitle is the page title of the table of contents.
const TocTitle = "Inhaltsverzeichnis"

// Entry is one physical page of the document.
type Entry struct {
	Kind        Kind
	Snippet     *model.Snippet
	ChapterName string
	ChapterNr   int // 0 for standalone pages
	ItemIndex   int // -1 for the table of contents
	Position    int // position within the chapter
	Numbered    bool
	DisplayNr   int
}

// Title is the seitentitel of the entry.
func (e *Entry) Title() string {
	switch e.Kind {
	case KindToc:
		return TocTitle
	case KindChapterCover:
		return e.ChapterName
	}
	if e.Snippet == nil {
		return ""
	}
	return e.Snippet.Title
}

// TocEntry is one line of the table of contents.
type TocEntry struct {
	Title     string
	DisplayNr int
	IsChapter bool
}

// Sequence is the flattened document.
type Sequence struct {
	Collection   *model.Collection
	Settings     model.PrintSettings
	Entries      []Entry
	DisplayTotal int
	Toc          []TocEntry
}

// Flatten walks the items of c in order and produces the numbered entry
// sequence. Every referenced snippet has to be present in snippets.
func Flatten(c *model.Collection, settings model.PrintSettings, snippets map[string]*model.Snippet) (*Sequence, error) {
	settings = settings.Normalize()
	var (
		entries []Entry
		errs    error
		chNr    int
	)
	page := func(id string, itemIdx, pos int, name string, nr int) {
		sn, ok := snippets[id]
		if !ok || sn == nil {
			errs = multierr.Append(errs, fmt.Errorf("item %d page %d %q: %w", itemIdx, pos, id, model.ErrSnippetNotFound))
			return
		}
		entries = append(entries, Entry{
			Kind:        KindPage,
			Snippet:     sn,
			ChapterName: name,
			ChapterNr:   nr,
			ItemIndex:   itemIdx,
			Position:    pos,
		})
	}
	for i, item := range c.Items {
		if !item.IsChapter() {
			page(item.SnippetId, i, 0, "", 0)
			continue
		}
		chNr++
		if settings.ChapterCovers {
			entries = append(entries, Entry{Kind: KindChapterCover, ChapterName: item.Name, ChapterNr: chNr, ItemIndex: i})
		}
		for pos, id := range item.SnippetIds {
			page(id, i, pos, item.Name, chNr)
		}
	}
	if errs != nil {
		return nil, errs
	}

	if settings.Cover {
		// the first content page becomes the cover, ahead of any chapter cover
		if idx := slices.IndexFunc(entries, func(e Entry) bool { return e.Kind == KindPage }); idx >= 0 {
			cover := entries[idx]
			cover.Kind = KindCover
			entries = slices.Delete(entries, idx, idx+1)
			entries = slices.Insert(entries, 0, cover)
		}
	}
	if settings.Toc {
		at := 0
		if len(entries) > 0 && entries[0].Kind == KindCover {
			at = 1
		}
		entries = slices.Insert(entries, at, Entry{Kind: KindToc, ItemIndex: -1})
	}

	seq := &Sequence{Collection: c, Settings: settings, Entries: entries}
	nr := settings.StartNr
	for i := range seq.Entries {
		e := &seq.Entries[i]
		if e.Kind == KindCover {
			continue
		}
		e.Numbered = true
		e.DisplayNr = nr
		nr++
		seq.DisplayTotal++
		if e.Kind == KindChapterCover || e.Kind == KindPage {
			seq.Toc = append(seq.Toc, TocEntry{Title: e.Title(), DisplayNr: e.DisplayNr, IsChapter: e.Kind == KindChapterCover})
		}
	}
	return seq, nil
}

// ContentPages counts cover and page entries, i.e. entries backed by a
// snippet.
func (s *Sequence) ContentPages() int {
	n := 0
	for _, e := range s.Entries {
		if e.Kind == KindPage || e.Kind == KindCover {
			n++
		}
	}
	return n
}

// Find returns the index of the entry rendering page position of item.
func (s *Sequence) Find(item, position int) (int, bool) {
	for i, e := range s.Entries {
		if (e.Kind == KindPage || e.Kind == KindCover) && e.ItemIndex == item && e.Position == position {
			return i, true
		}
	}
	return -1, false
}

// Vars builds the placeholder values of entry i.
func (s *Sequence) Vars(i int, now time.Time) placeholder.Vars {
	e := &s.Entries[i]
	c := s.Collection
	vars := placeholder.Vars{
		placeholder.Collection: c.Name,
		placeholder.Subtitle:   c.Subtitle,
		placeholder.Author:     c.Author,
		placeholder.Copyright:  c.Copyright,
		placeholder.Chapter:    e.ChapterName,
		placeholder.ChapterNr:  "",
		placeholder.PageNumber: placeholder.Unnumbered,
		placeholder.TotalPages: strconv.Itoa(s.DisplayTotal),
		placeholder.PageTitle:  e.Title(),
		placeholder.Date:       placeholder.FormatDate(now),
	}
	if e.ChapterNr > 0 {
		vars[placeholder.ChapterNr] = strconv.Itoa(e.ChapterNr)
	}
	if e.Numbered {
		vars[placeholder.PageNumber] = strconv.Itoa(e.DisplayNr)
	}
	return vars
}
