// Package text exports a composed collection document as markdown files.
package text

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"pageforge/compose"
	"pageforge/utils"
)

// PackDocumentToMarkdown writes one .md file per document page into
// outputPath/<slug>/ and returns that directory.
func PackDocumentToMarkdown(ctx context.Context, doc *compose.Document, outputPath string, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := doc.Sequence.Collection
	outputPath = filepath.Join(outputPath, utils.DirName(c.Name, c.Id))
	_, err := os.Stat(outputPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to get output directory: %v", err)
		}
	} else if err := os.RemoveAll(outputPath); err != nil {
		return "", fmt.Errorf("failed to remove output directory: %v", err)
	}
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %v", err)
	}

	for i, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		md, err := PageMarkdown(page.Html)
		if err != nil {
			return "", fmt.Errorf("failed to convert page %d: %v", i, err)
		}
		pagePath := filepath.Join(outputPath, utils.FileName(i, page.Title, ".md"))
		if err := os.WriteFile(pagePath, []byte(md), 0644); err != nil {
			return "", fmt.Errorf("failed to write page file: %v", err)
		}
		log.Debug("Markdown page written", zap.String("path", pagePath))
	}
	log.Info("Markdown written", zap.String("dir", outputPath), zap.Int("pages", len(doc.Pages)))
	return outputPath, nil
}

// PageMarkdown converts one rendered page fragment. Style blocks, scripts
// and inline images are dropped.
func PageMarkdown(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	doc.Find("style, script").Remove()
	doc.Find(`img[src^="data:"]`).Remove()
	body := doc.Find("body").First()
	if len(body.Nodes) == 0 {
		return "", nil
	}
	md, err := htmltomarkdown.ConvertNode(body.Nodes[0])
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(md)) + "\n", nil
}
