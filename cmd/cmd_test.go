package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "store:\n  driver: sqlite\n  path: " + filepath.Join(dir, "library.db") + "\n" +
		"logging:\n  console:\n    level: none\n" +
		"export:\n  output: " + filepath.Join(dir, "out") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := Execute()
	return out.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgPath, args...)
	require.NoError(t, err, out)
	return out
}

func TestVersion(t *testing.T) {
	out := mustRun(t, testConfig(t), "version")
	assert.Contains(t, out, Version)
}

func TestCollectionWorkflow(t *testing.T) {
	cfgPath := testConfig(t)
	dir := filepath.Dir(cfgPath)

	page := filepath.Join(dir, "intro.html")
	require.NoError(t, os.WriteFile(page, []byte(`<html><head><title>Intro</title><style>h1{color:red}</style></head><body><h1>{{seitentitel}}</h1><p>{{seitenzahl}}/{{gesamtseiten}}</p></body></html>`), 0644))
	out := mustRun(t, cfgPath, "snippet", "import", page)
	snipID := strings.Fields(out)[0]
	assert.True(t, strings.HasPrefix(snipID, "snip_"))

	colID := strings.TrimSpace(mustRun(t, cfgPath, "collection", "create", "Mein Buch", "--author", "Ada"))
	assert.True(t, strings.HasPrefix(colID, "col_"))

	out = mustRun(t, cfgPath, "collection", "add-pages", colID, "0", snipID)
	assert.Contains(t, out, "chapter 1: Kapitel 1")
	assert.Contains(t, out, snipID+"  (p. 1)")

	_, err := run(t, cfgPath, "collection", "add-pages", colID, "0", "snip_missing")
	assert.Error(t, err)
	_, err = run(t, cfgPath, "collection", "move", colID, "0", "4")
	assert.Error(t, err)

	mustRun(t, cfgPath, "collection", "settings", colID, "--toc", "--toc-style", "modern")
	out = mustRun(t, cfgPath, "collection", "show", colID)
	assert.Contains(t, out, "toc=true (modern)")
	assert.Contains(t, out, snipID+"  (p. 2)")

	out = mustRun(t, cfgPath, "export", "--collection", colID, "--format", "html")
	htmlPath := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "out", "mein-buch.html"), htmlPath)
	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Intro</h1>")
	assert.Contains(t, string(data), "<p>2/2</p>")
	assert.Contains(t, string(data), "#pf-s1 h1")

	out = mustRun(t, cfgPath, "collection", "list")
	assert.Contains(t, out, "Mein Buch\t1 chapter(s)\t1 page(s)")

	mustRun(t, cfgPath, "snippet", "delete", snipID)
	out = mustRun(t, cfgPath, "collection", "list")
	assert.Contains(t, out, "0 page(s)")
}

func TestDumpRestore(t *testing.T) {
	cfgPath := testConfig(t)
	colID := strings.TrimSpace(mustRun(t, cfgPath, "collection", "create", "Sicherung"))

	backup := filepath.Join(filepath.Dir(cfgPath), "backup.json")
	mustRun(t, cfgPath, "dump", "--output", backup)
	mustRun(t, cfgPath, "collection", "delete", colID)

	out := mustRun(t, cfgPath, "restore", "--input", backup)
	assert.Contains(t, out, "restored 7 store(s)")
	out = mustRun(t, cfgPath, "collection", "list")
	assert.Contains(t, out, colID)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, testConfig(t), "export", "--collection", "col_x", "--format", "docx")
	assert.Error(t, err)
}
