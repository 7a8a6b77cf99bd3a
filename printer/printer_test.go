package printer

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chromePath(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("no chrome binary found")
	return ""
}

func TestAllocatorOptions(t *testing.T) {
	base := allocatorOptions(DefaultOptions())
	withExtra := allocatorOptions(Options{Headless: true, ExecPath: "/bin/chrome", Flags: []string{"disable-web-security"}})
	assert.Len(t, withExtra, len(base)+2)
}

func TestPDF(t *testing.T) {
	opts := DefaultOptions()
	opts.ExecPath = chromePath(t)
	p, err := New(opts, nil)
	require.NoError(t, err)
	defer p.Close()

	pdf, err := p.PDF(context.Background(), `<!DOCTYPE html><html><head><style>@page{size:A4;margin:0}</style></head><body><h1>Hallo</h1></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	png, err := p.Screenshot(context.Background(), `<html><body>x</body></html>`, 200, 100)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}

func TestPDFCancelled(t *testing.T) {
	opts := DefaultOptions()
	opts.ExecPath = chromePath(t)
	p, err := New(opts, nil)
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.PDF(ctx, `<html><body>x</body></html>`)
	assert.ErrorIs(t, err, context.Canceled)
}
