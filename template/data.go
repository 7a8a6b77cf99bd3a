package template

import (
	"strconv"

	"github.com/a-h/templ"

	"pageforge/layout"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// xhtmlDoctype keeps the upper-case form XML parsers require.
const xhtmlDoctype = "<!DOCTYPE html>\n"

// stylesheetLink points from OEBPS/Text to the shared EPUB stylesheet.
const stylesheetLink = `<link href="../../style.css" rel="stylesheet" type="text/css"/>`

// PageData is one content page wrapped into its scope container.
type PageData struct {
	Scope string
	Class string
	Style string
	Css   string
	Body  string
}

// attributes carries the page's own body class and style onto the wrapper.
func (d PageData) attributes() templ.OrderedAttributes {
	class := "pf-page"
	if d.Class != "" {
		class += " " + d.Class
	}
	return templ.OrderedAttributes{
		{Key: "class", Value: class},
		{Key: "id", Value: d.Scope},
		{Key: "style", Value: templ.KV(d.Style, d.Style != "")},
	}
}

// TocData feeds the table of contents page. Css is the variant stylesheet,
// already confined to Scope.
type TocData struct {
	Scope      string
	Css        string
	Collection string
	Copyright  string
	Entries    []layout.TocEntry
	PageNr     string
	Total      string
}

type ChapterCoverData struct {
	Scope       string
	Css         string
	ChapterName string
	ChapterNr   int
	Collection  string
	Subtitle    string
	Copyright   string
	Date        string
	PageNr      string
	Total       string
}

func (d ChapterCoverData) label() string {
	return "Kapitel " + strconv.Itoa(d.ChapterNr)
}

func styleTag(css string) templ.Component {
	return templ.Raw("<style>" + css + "</style>")
}

type marshaler interface {
	Marshal() (string, error)
}

// marshaled embeds the XML of m, failing the render when marshalling fails.
func marshaled(m marshaler) templ.Component {
	s, err := m.Marshal()
	return templ.Raw(s, err)
}
