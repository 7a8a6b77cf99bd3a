package model

import "errors"

var (
	// ErrIndexOutOfRange is returned by structural operations addressing an
	// item or page position that does not exist.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidTarget is returned when a page-level operation addresses an
	// item that is not a chapter.
	ErrInvalidTarget = errors.New("invalid target")
	// ErrEmptyCollection is returned when a document is requested for a
	// collection without content pages.
	ErrEmptyCollection = errors.New("collection has no pages")
	// ErrSnippetNotFound is returned when a collection references a page
	// snippet that can not be loaded.
	ErrSnippetNotFound = errors.New("snippet not found")
)
