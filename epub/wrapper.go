// Package epub packs a composed collection document into an EPUB book.
package epub

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pageforge/compose"
	"pageforge/layout"
	"pageforge/model"
	"pageforge/template"
	"pageforge/utils"
)

type Packer struct {
	log *zap.Logger
	now func() time.Time
}

func NewPacker(log *zap.Logger) *Packer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Packer{log: log.Named("epub"), now: time.Now}
}

func (p *Packer) WithClock(now func() time.Time) *Packer {
	np := *p
	np.now = now
	return &np
}

type page struct {
	id    string
	file  string
	title string
	entry layout.Entry
}

// Pack writes the book to outputPath/<slug>/ and zips it next to that
// directory. It returns the path of the .epub file.
func (p *Packer) Pack(ctx context.Context, doc *compose.Document, outputPath string) (string, error) {
	c := doc.Sequence.Collection
	outputPath = filepath.Join(outputPath, utils.DirName(c.Name, c.Id))
	if err := recreateDir(outputPath); err != nil {
		return "", err
	}

	textDir := filepath.Join(outputPath, "OEBPS", "Text")
	if err := os.MkdirAll(textDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create text directory: %v", err)
	}

	var (
		pages []page
		extra []model.PackageFile
	)
	for i, rp := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		body, files, err := extractImages(rp.Html, i)
		if err != nil {
			return "", fmt.Errorf("failed to extract images of page %d: %v", i, err)
		}
		extra = append(extra, files...)

		pg := page{
			id:    fmt.Sprintf("page-%03d", i),
			file:  fmt.Sprintf("page-%03d.xhtml", i),
			title: rp.Title,
			entry: rp.Entry,
		}
		if err := renderFile(ctx, filepath.Join(textDir, pg.file), template.ContentXHTML(pg.title, body)); err != nil {
			return "", fmt.Errorf("failed to write page %d: %v", i, err)
		}
		pages = append(pages, pg)
	}

	if err := renderFile(ctx, filepath.Join(textDir, "contents.xhtml"), template.ContentXHTML(layout.TocTitle, navDocument(pages))); err != nil {
		return "", fmt.Errorf("failed to render contents XHTML: %v", err)
	}

	if err := renderFile(ctx, filepath.Join(outputPath, "META-INF", "container.xml"), template.ContainerXML()); err != nil {
		return "", fmt.Errorf("failed to render container: %v", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate book id: %v", err)
	}
	head := &model.TocNCXHead{Meta: []model.TocNCXHeadMeta{
		{Name: "dtb:uid", Content: "urn:uuid:" + id.String()},
		{Name: "dtb:depth", Content: "2"},
	}}
	if err := renderFile(ctx, filepath.Join(outputPath, "toc.ncx"), template.TocNCX(c.Name, head, navMap(pages))); err != nil {
		return "", fmt.Errorf("failed to render toc.ncx: %v", err)
	}

	if err := p.createContentOPF(ctx, outputPath, id.String(), c, pages, extra); err != nil {
		return "", fmt.Errorf("failed to create content OPF: %v", err)
	}

	if err := os.WriteFile(filepath.Join(outputPath, "style.css"), []byte(template.EpubCSS), 0644); err != nil {
		return "", fmt.Errorf("failed to write CSS: %v", err)
	}

	for _, file := range extra {
		extraFilePath := filepath.Join(outputPath, filepath.FromSlash(file.Path))
		if err := os.MkdirAll(filepath.Dir(extraFilePath), 0755); err != nil {
			return "", fmt.Errorf("failed to create image directory: %v", err)
		}
		if err := os.WriteFile(extraFilePath, file.Data, 0644); err != nil {
			return "", fmt.Errorf("failed to write extra file: %v", err)
		}
	}

	savePath, err := utils.PackEpub(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to pack epub: %v", err)
	}
	p.log.Info("EPUB written", zap.String("path", savePath), zap.Int("pages", len(pages)), zap.Int("images", len(extra)))
	return savePath, nil
}

func (p *Packer) createContentOPF(ctx context.Context, outputPath, id string, c *model.Collection, pages []page, extra []model.PackageFile) error {
	metadata := &model.PackageMetadata{
		Titles:      []model.DCValue{{Value: c.Name}},
		Identifiers: []model.DCIdentifier{{Value: "urn:uuid:" + id, ID: "book-id"}},
		Languages:   []model.DCValue{{Value: "de"}},
		Metas: []model.PackageMeta{{
			Property: "dcterms:modified",
			Value:    p.now().UTC().Format("2006-01-02T15:04:05Z"),
		}},
	}
	if c.Author != "" {
		metadata.Creators = append(metadata.Creators, model.DCValue{Value: c.Author})
	}
	if desc := strings.TrimSpace(strings.Join([]string{c.Subtitle, c.Description}, " ")); desc != "" {
		metadata.Descriptions = append(metadata.Descriptions, model.DCValue{Value: desc})
	}
	if c.Copyright != "" {
		metadata.Rights = append(metadata.Rights, model.DCValue{Value: c.Copyright})
	}

	manifest := &model.Manifest{Items: []model.ManifestItem{
		{ID: "contents", Link: "OEBPS/Text/contents.xhtml", Media: "application/xhtml+xml", Properties: "nav"},
		{ID: "ncx", Link: "toc.ncx", Media: "application/x-dtbncx+xml"},
		{ID: "style", Link: "style.css", Media: "text/css"},
	}}
	spine := &model.Spine{Toc: "ncx"}
	for _, pg := range pages {
		manifest.Items = append(manifest.Items, model.ManifestItem{
			ID:    pg.id,
			Link:  "OEBPS/Text/" + pg.file,
			Media: "application/xhtml+xml",
		})
		spine.Items = append(spine.Items, model.SpineItem{IDref: pg.id})
	}
	for _, file := range extra {
		manifest.Items = append(manifest.Items, file.ManifestItem)
	}
	return renderFile(ctx, filepath.Join(outputPath, "content.opf"), template.ContentOPF("book-id", metadata, manifest, spine))
}

// navMap builds the NCX navigation: chapters hold their pages, the cover
// and standalone pages sit on the top level.
func navMap(pages []page) *model.NavMap {
	nav := &model.NavMap{}
	var (
		chapter *model.NavPoint
		lastNr  = -1
		order   = 0
	)
	point := func(pg page, label string) *model.NavPoint {
		order++
		return &model.NavPoint{
			Id:        "nav-" + pg.id,
			PlayOrder: order,
			Label:     label,
			Content:   model.NavPointContent{Src: "OEBPS/Text/" + pg.file},
		}
	}
	for _, pg := range pages {
		e := pg.entry
		switch {
		case e.Kind == layout.KindToc:
			continue
		case e.Kind == layout.KindChapterCover:
			chapter = point(pg, e.ChapterName)
			lastNr = e.ChapterNr
			nav.Points = append(nav.Points, chapter)
		case e.Kind == layout.KindPage && e.ChapterNr > 0:
			if chapter == nil || lastNr != e.ChapterNr {
				chapter = point(pg, e.ChapterName)
				lastNr = e.ChapterNr
				nav.Points = append(nav.Points, chapter)
			}
			chapter.NavPoints = append(chapter.NavPoints, point(pg, pg.title))
		default:
			chapter, lastNr = nil, -1
			nav.Points = append(nav.Points, point(pg, pg.title))
		}
	}
	return nav
}

func navDocument(pages []page) string {
	contents := strings.Builder{}
	contents.WriteString(`<nav epub:type="toc" id="toc"><h1>` + layout.TocTitle + `</h1><ol>`)
	for _, pt := range navMap(pages).Points {
		contents.WriteString(fmt.Sprintf(`<li><a href="%s">%s</a>`, filepath.Base(pt.Content.Src), templ.EscapeString(pt.Label)))
		if len(pt.NavPoints) > 0 {
			contents.WriteString(`<ol>`)
			for _, sub := range pt.NavPoints {
				contents.WriteString(fmt.Sprintf(`<li><a href="%s">%s</a></li>`, filepath.Base(sub.Content.Src), templ.EscapeString(sub.Label)))
			}
			contents.WriteString(`</ol>`)
		}
		contents.WriteString(`</li>`)
	}
	contents.WriteString(`</ol></nav>`)
	return contents.String()
}

// extractImages moves inline data: images of a page into package files.
func extractImages(fragment string, pageIdx int) (string, []model.PackageFile, error) {
	if !strings.Contains(fragment, `src="data:`) {
		return fragment, nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", nil, err
	}
	var (
		files []model.PackageFile
		errs  error
	)
	doc.Find(`img[src^="data:"]`).Each(func(i int, s *goquery.Selection) {
		if errs != nil {
			return
		}
		src, _ := s.Attr("src")
		media, data, err := decodeDataURL(src)
		if err != nil {
			errs = err
			return
		}
		ext := ".bin"
		if exts, _ := mime.ExtensionsByType(media); len(exts) > 0 {
			ext = exts[0]
		}
		name := fmt.Sprintf("page-%03d-%02d%s", pageIdx, i, ext)
		files = append(files, model.PackageFile{
			Data: data,
			Path: "OEBPS/Images/" + name,
			ManifestItem: model.ManifestItem{
				ID:    "img-" + strings.TrimSuffix(name, ext),
				Link:  "OEBPS/Images/" + name,
				Media: media,
			},
		})
		s.SetAttr("src", "../Images/"+name)
	})
	if errs != nil {
		return "", nil, errs
	}
	body, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, err
	}
	return body, files, nil
}

func decodeDataURL(src string) (string, []byte, error) {
	head, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok || !strings.HasSuffix(head, ";base64") {
		return "", nil, fmt.Errorf("unsupported data url")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return strings.TrimSuffix(head, ";base64"), data, nil
}

func recreateDir(outputPath string) error {
	_, err := os.Stat(outputPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to get output directory: %v", err)
		}
	} else if err := os.RemoveAll(outputPath); err != nil {
		return fmt.Errorf("failed to remove output directory: %v", err)
	}
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %v", err)
	}
	return nil
}

func renderFile(ctx context.Context, path string, c templ.Component) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return c.Render(ctx, file)
}
