package utils

import (
	"fmt"

	"github.com/gosimple/slug"
)

// FileName returns a file name for the n-th exported page.
func FileName(n int, title, ext string) string {
	name := slug.Make(title)
	if name == "" {
		name = "seite"
	}
	return fmt.Sprintf("%03d-%s%s", n, name, ext)
}

// DirName returns a directory name for an exported collection.
func DirName(name, fallback string) string {
	if s := slug.Make(name); s != "" {
		return s
	}
	return fallback
}
