package library

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"

	"pageforge/model"
	"pageforge/utils"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(ghtml.WithUnsafe()),
)

// ImportFile creates a snippet from an .html or .md file.
func (l *Library) ImportFile(ctx context.Context, file, category string) (*model.Snippet, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", file, err)
	}
	name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	switch strings.ToLower(filepath.Ext(file)) {
	case ".md", ".markdown":
		return l.ImportMarkdown(ctx, name, data, category)
	case ".html", ".htm":
		return l.ImportHTML(ctx, name, data, category)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(file))
	}
}

// ImportHTML stores markup as a new snippet. The title comes from <title>,
// then the first <h1>, then fallback.
func (l *Library) ImportHTML(ctx context.Context, fallback string, markup []byte, category string) (*model.Snippet, error) {
	sn := &model.Snippet{
		Title:       documentTitle(markup, fallback),
		HtmlContent: string(markup),
		Category:    category,
	}
	if err := l.SaveSnippet(ctx, sn); err != nil {
		return nil, err
	}
	l.log.Info("Snippet imported", zap.String("id", sn.Id), zap.String("title", sn.Title))
	return sn, nil
}

// ImportMarkdown converts a markdown document into a full HTML page and
// stores it as a new snippet.
func (l *Library) ImportMarkdown(ctx context.Context, fallback string, src []byte, category string) (*model.Snippet, error) {
	var body bytes.Buffer
	if err := markdown.Convert(src, &body); err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %v", err)
	}
	title := documentTitle(body.Bytes(), fallback)
	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"UTF-8\"><title>")
	page.WriteString(templ.EscapeString(title))
	page.WriteString("</title></head><body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body></html>")
	return l.ImportHTML(ctx, fallback, page.Bytes(), category)
}

// ImportURL downloads a remote page and stores it as a new snippet.
func (l *Library) ImportURL(ctx context.Context, rawURL, category string) (*model.Snippet, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid url: %s", rawURL)
	}
	resp, err := utils.Request().SetContext(ctx).Get(u.String())
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %v", rawURL, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to get %s: %s", rawURL, resp.Status())
	}
	fallback := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	if fallback == "" || fallback == "/" || fallback == "." {
		fallback = u.Host
	}
	return l.ImportHTML(ctx, fallback, resp.Body(), category)
}

func documentTitle(markup []byte, fallback string) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		return fallback
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	return fallback
}
