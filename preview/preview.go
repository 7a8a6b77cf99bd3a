// Package preview renders single pages as scaled, script-free thumbnails.
package preview

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"pageforge/model"
	"pageforge/placeholder"
	"pageforge/template"
)

const (
	// PageWidth and PageHeight are A4 in CSS pixels.
	PageWidth  = 794
	PageHeight = 1123

	DefaultScale = 0.176
)

// ThumbnailSize is the frame size of a page rendered at scale.
func ThumbnailSize(scale float64) (int, int) {
	return int(math.Round(scale * PageWidth)), int(math.Round(scale * PageHeight))
}

type Renderer struct {
	log    *zap.Logger
	now    func() time.Time
	images map[string]string
}

func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log.Named("preview"), now: time.Now}
}

// WithClock fixes the time used for the datum fallback.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	nr := *r
	nr.now = now
	return &nr
}

// WithImages sets the alias map used to resolve pf:// references.
func (r *Renderer) WithImages(images map[string]string) *Renderer {
	nr := *r
	nr.images = images
	return &nr
}

var defaultRenderer = NewRenderer(nil)

// RenderThumbnail renders sn with vars resolved, masterCss injected unscoped
// and the page zoomed by scale.
func RenderThumbnail(sn *model.Snippet, vars placeholder.Vars, masterCss string, scale float64) (string, error) {
	return defaultRenderer.Thumbnail(sn, vars, masterCss, scale)
}

func (r *Renderer) Thumbnail(sn *model.Snippet, vars placeholder.Vars, masterCss string, scale float64) (string, error) {
	return r.render(sn, placeholder.ResolveAt(sn.HtmlContent, vars, r.now()), masterCss, scale)
}

// Highlighted renders sn for editing: tokens are shown as badges instead of
// values.
func (r *Renderer) Highlighted(sn *model.Snippet, masterCss string, scale float64) (string, error) {
	return r.render(sn, placeholder.Highlight(sn.HtmlContent), masterCss, scale)
}

func (r *Renderer) render(sn *model.Snippet, markup, masterCss string, scale float64) (string, error) {
	if scale <= 0 {
		scale = 1
	}
	markup = placeholder.ResolveImages(markup, r.images)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", fmt.Errorf("failed to parse snippet %q: %w", sn.Id, err)
	}
	doc.Find("script").Remove()
	head := doc.Find("head").First()
	if strings.TrimSpace(masterCss) != "" {
		head.AppendHtml("<style>/* Master */\n" + masterCss + "</style>")
	}
	head.AppendHtml("<style>" + fmt.Sprintf(template.PreviewZoomCSS, strconv.FormatFloat(scale, 'f', -1, 64)) + "</style>")
	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render snippet %q: %w", sn.Id, err)
	}
	r.log.Debug("Rendered thumbnail", zap.String("snippet", sn.Id), zap.Float64("scale", scale))
	return out, nil
}
