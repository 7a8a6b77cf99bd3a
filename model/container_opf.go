package model

import "encoding/xml"

// PackageMetadata is the Dublin Core block of an EPUB package document.
type PackageMetadata struct {
	XMLName xml.Name `xml:"metadata"`

	Titles       []DCValue      `xml:"dc:title"`
	Identifiers  []DCIdentifier `xml:"dc:identifier"`
	Languages    []DCValue      `xml:"dc:language"`
	Creators     []DCValue      `xml:"dc:creator"`
	Descriptions []DCValue      `xml:"dc:description"`
	Rights       []DCValue      `xml:"dc:rights"`
	Dates        []DCValue      `xml:"dc:date"`
	Metas        []PackageMeta  `xml:"meta"`
}

func (m *PackageMetadata) Marshal() (string, error) {
	return marshalXML(m)
}

type DCValue struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr,omitempty"`
	Lang  string `xml:"xml:lang,attr,omitempty"`
}

type DCIdentifier struct {
	Value string `xml:",chardata"`
	ID    string `xml:"id,attr,omitempty"`
}

type PackageMeta struct {
	Name     string `xml:"name,attr,omitempty"`
	Content  string `xml:"content,attr,omitempty"`
	Property string `xml:"property,attr,omitempty"`
	Value    string `xml:",chardata"`
}

type Manifest struct {
	XMLName xml.Name       `xml:"manifest"`
	Items   []ManifestItem `xml:"item"`
}

func (m *Manifest) Marshal() (string, error) {
	return marshalXML(m)
}

type ManifestItem struct {
	ID         string `xml:"id,attr"`
	Link       string `xml:"href,attr"`
	Media      string `xml:"media-type,attr,omitempty"`
	Properties string `xml:"properties,attr,omitempty"`
}

type Spine struct {
	XMLName xml.Name    `xml:"spine"`
	Toc     string      `xml:"toc,attr,omitempty"`
	Items   []SpineItem `xml:"itemref"`
}

func (s *Spine) Marshal() (string, error) {
	return marshalXML(s)
}

type SpineItem struct {
	IDref string `xml:"idref,attr"`
}

// PackageFile is an additional file written next to the generated pages,
// e.g. an image resolved from a pf:// alias.
type PackageFile struct {
	Data         []byte
	Path         string
	ManifestItem ManifestItem
}

func marshalXML(v any) (string, error) {
	b, err := xml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
