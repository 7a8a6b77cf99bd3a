// Package compose renders a collection into one print document.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"pageforge/cssscope"
	"pageforge/layout"
	"pageforge/model"
	"pageforge/placeholder"
	"pageforge/template"
)

// Source provides the records a collection refers to.
type Source struct {
	Snippets map[string]*model.Snippet
	// Images maps lower-case aliases to data URLs for pf:// references.
	Images map[string]string
}

// RenderedPage is one entry of the document after resolution and scoping.
type RenderedPage struct {
	Entry layout.Entry
	Scope string
	Title string
	Vars  placeholder.Vars
	Html  string
}

type Document struct {
	Title    string
	Html     string
	Sequence *layout.Sequence
	Pages    []RenderedPage
}

type Builder struct {
	log *zap.Logger
	iso *cssscope.Isolator
	now func() time.Time
}

func NewBuilder(log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		log: log.Named("compose"),
		iso: cssscope.New(log),
		now: time.Now,
	}
}

// WithClock fixes the time used for the datum placeholder.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	nb := *b
	nb.now = now
	return &nb
}

// ScopeId is the id of the container of the entry at index.
func ScopeId(index int) string {
	return fmt.Sprintf("pf-s%d", index)
}

// Build flattens c and renders every entry into one document.
func (b *Builder) Build(ctx context.Context, c *model.Collection, settings model.PrintSettings, src Source) (*Document, error) {
	if c.CountPages() == 0 {
		return nil, fmt.Errorf("collection %q: %w", c.Name, model.ErrEmptyCollection)
	}
	seq, err := layout.Flatten(c, settings, src.Snippets)
	if err != nil {
		return nil, err
	}
	now := b.now()
	doc := &Document{Title: c.Name, Sequence: seq, Pages: make([]RenderedPage, 0, len(seq.Entries))}
	fragments := make([]string, 0, len(seq.Entries))
	for i := range seq.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := b.entry(ctx, seq, i, now, src.Images)
		if err != nil {
			return nil, err
		}
		b.log.Debug("Rendered entry",
			zap.Int("index", i),
			zap.Stringer("kind", page.Entry.Kind),
			zap.String("title", page.Title),
			zap.Int("nr", page.Entry.DisplayNr))
		doc.Pages = append(doc.Pages, page)
		fragments = append(fragments, page.Html)
	}

	var buf bytes.Buffer
	if err := template.Document(c.Name, fragments).Render(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	doc.Html = buf.String()
	b.log.Info("Document composed",
		zap.String("collection", c.Name),
		zap.Int("entries", len(doc.Pages)),
		zap.Int("total", seq.DisplayTotal))
	return doc, nil
}

func (b *Builder) entry(ctx context.Context, seq *layout.Sequence, i int, now time.Time, images map[string]string) (RenderedPage, error) {
	e := seq.Entries[i]
	vars := seq.Vars(i, now)
	page := RenderedPage{Entry: e, Scope: ScopeId(i), Title: e.Title(), Vars: vars}
	c := seq.Collection

	var buf bytes.Buffer
	switch e.Kind {
	case layout.KindToc:
		err := template.TocPage(template.TocData{
			Scope:      page.Scope,
			Css:        b.iso.Isolate(template.TocCSS(seq.Settings.TocStyle), "#"+page.Scope),
			Collection: c.Name,
			Copyright:  c.Copyright,
			Entries:    seq.Toc,
			PageNr:     vars[placeholder.PageNumber],
			Total:      vars[placeholder.TotalPages],
		}).Render(ctx, &buf)
		if err != nil {
			return page, fmt.Errorf("failed to render table of contents: %w", err)
		}
	case layout.KindChapterCover:
		err := template.ChapterCoverPage(template.ChapterCoverData{
			Scope:       page.Scope,
			Css:         b.iso.Isolate(template.ChapterCoverCSS(seq.Settings.CcStyle), "#"+page.Scope),
			ChapterName: e.ChapterName,
			ChapterNr:   e.ChapterNr,
			Collection:  c.Name,
			Subtitle:    c.Subtitle,
			Copyright:   c.Copyright,
			Date:        vars[placeholder.Date],
			PageNr:      vars[placeholder.PageNumber],
			Total:       vars[placeholder.TotalPages],
		}).Render(ctx, &buf)
		if err != nil {
			return page, fmt.Errorf("failed to render chapter cover %q: %w", e.ChapterName, err)
		}
	default:
		data, err := b.contentPage(e.Snippet, vars, now, images, c.MasterCss, page.Scope)
		if err != nil {
			return page, err
		}
		if err := template.Page(data).Render(ctx, &buf); err != nil {
			return page, fmt.Errorf("failed to render page %q: %w", e.Snippet.Id, err)
		}
	}
	page.Html = buf.String()
	return page, nil
}

func (b *Builder) contentPage(sn *model.Snippet, vars placeholder.Vars, now time.Time, images map[string]string, master, scope string) (template.PageData, error) {
	raw := placeholder.ResolveAt(sn.HtmlContent, vars, now)
	raw = placeholder.ResolveImages(raw, images)
	parts, err := Split(raw)
	if err != nil {
		return template.PageData{}, fmt.Errorf("failed to parse page %q: %w", sn.Id, err)
	}
	css := b.iso.Isolate(parts.Css, "#"+scope)
	if strings.TrimSpace(master) != "" {
		css = strings.TrimSpace(css + "\n" + b.iso.Isolate(master, "#"+scope))
	}
	return template.PageData{
		Scope: scope,
		Class: parts.BodyClass,
		Style: parts.BodyStyle,
		Css:   css,
		Body:  parts.Body,
	}, nil
}

// Parts is a page document split into the pieces the builder recombines.
type Parts struct {
	Title     string
	Css       string
	Body      string
	BodyClass string
	BodyStyle string
}

// Split extracts the embedded style blocks and the body of a page document.
// Fragments without html or body elements are treated as body content.
func Split(markup string) (Parts, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Parts{}, err
	}
	var p Parts
	p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	styles := doc.Find("style")
	css := make([]string, 0, styles.Length())
	styles.Each(func(_ int, s *goquery.Selection) {
		css = append(css, s.Text())
	})
	styles.Remove()
	p.Css = strings.Join(css, "\n")

	body := doc.Find("body").First()
	p.BodyClass = strings.TrimSpace(body.AttrOr("class", ""))
	p.BodyStyle = strings.TrimSpace(body.AttrOr("style", ""))
	p.Body, err = body.Html()
	if err != nil {
		return Parts{}, err
	}
	return p, nil
}
