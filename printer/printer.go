// Package printer renders composed documents with a headless Chrome.
package printer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

type Options struct {
	Headless bool
	Timeout  time.Duration
	// ExecPath overrides the Chrome binary chromedp looks up.
	ExecPath string
	Flags    []string
}

func DefaultOptions() Options {
	return Options{Headless: true, Timeout: 30 * time.Second}
}

// Printer owns one browser instance reused for every print job.
type Printer struct {
	log  *zap.Logger
	opts Options

	mu            sync.Mutex
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func New(opts Options, log *zap.Logger) (*Printer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	p := &Printer{log: log.Named("printer"), opts: opts}
	if err := p.initBrowser(); err != nil {
		return nil, fmt.Errorf("failed to init browser: %v", err)
	}
	return p, nil
}

func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
	)
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	for _, f := range opts.Flags {
		out = append(out, chromedp.Flag(f, true))
	}
	return out
}

func (p *Printer) initBrowser() error {
	p.allocCtx, p.allocCancel = chromedp.NewExecAllocator(context.Background(), allocatorOptions(p.opts)...)
	p.browserCtx, p.browserCancel = chromedp.NewContext(p.allocCtx)

	if err := chromedp.Run(p.browserCtx, chromedp.Navigate("about:blank")); err != nil {
		p.closeBrowser()
		return err
	}
	p.log.Info("Browser initialized", zap.Bool("headless", p.opts.Headless))
	return nil
}

func (p *Printer) closeBrowser() {
	if p.browserCancel != nil {
		p.browserCancel()
	}
	if p.allocCancel != nil {
		p.allocCancel()
	}
}

func (p *Printer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeBrowser()
	return nil
}

// PDF prints html with backgrounds and the CSS page size (A4 from the
// document's @page rule).
func (p *Printer) PDF(ctx context.Context, html string) ([]byte, error) {
	var out []byte
	err := p.run(ctx, html, chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPreferCSSPageSize(true).
			WithMarginTop(0).WithMarginBottom(0).WithMarginLeft(0).WithMarginRight(0).
			Do(ctx)
		if err != nil {
			return err
		}
		out = data
		return nil
	}))
	if err != nil {
		return nil, err
	}
	p.log.Debug("PDF printed", zap.Int("bytes", len(out)))
	return out, nil
}

// Screenshot captures the first width x height pixels of html as PNG.
func (p *Printer) Screenshot(ctx context.Context, html string, width, height int) ([]byte, error) {
	var out []byte
	err := p.run(ctx, html,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.CaptureScreenshot(&out),
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// run writes html to a temp file, opens it in a new tab and runs actions.
func (p *Printer) run(ctx context.Context, html string, actions ...chromedp.Action) error {
	tempFile, err := os.CreateTemp("", "pageforge-*.html")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.WriteString(html); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	tempFile.Close()

	p.mu.Lock()
	browserCtx := p.browserCtx
	p.mu.Unlock()

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()
	taskCtx, cancel := context.WithTimeout(tabCtx, p.opts.Timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		if ev, ok := ev.(*network.EventLoadingFailed); ok && !ev.Canceled {
			p.log.Debug("Resource failed to load", zap.String("request", ev.RequestID.String()), zap.String("error", ev.ErrorText))
		}
	})

	tasks := chromedp.Tasks{
		network.Enable(),
		chromedp.Navigate("file://" + filepath.ToSlash(tempFile.Name())),
		chromedp.WaitReady("body", chromedp.ByQuery),
	}
	tasks = append(tasks, actions...)
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("chromedp execution failed: %w", err)
	}
	return nil
}
