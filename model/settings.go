package model

type TocStyle string

const (
	TocClassic TocStyle = "classic"
	TocModern  TocStyle = "modern"
	TocMinimal TocStyle = "minimal"
)

type ChapterCoverStyle string

const (
	ChapterCoverBold    ChapterCoverStyle = "bold"
	ChapterCoverElegant ChapterCoverStyle = "elegant"
	ChapterCoverStripe  ChapterCoverStyle = "stripe"
)

// PrintSettings is the print configuration persisted with a collection.
type PrintSettings struct {
	Cover         bool              `json:"cover"`
	StartNr       int               `json:"startNr"`
	Toc           bool              `json:"toc"`
	TocStyle      TocStyle          `json:"tocStyle,omitempty"`
	ChapterCovers bool              `json:"chapterCovers"`
	CcStyle       ChapterCoverStyle `json:"ccStyle,omitempty"`
}

func DefaultPrintSettings() PrintSettings {
	return PrintSettings{StartNr: 1, TocStyle: TocClassic, CcStyle: ChapterCoverBold}
}

// Normalize returns a copy with the start number clamped to 1 and unknown
// style variants replaced by the defaults.
func (s PrintSettings) Normalize() PrintSettings {
	if s.StartNr < 1 {
		s.StartNr = 1
	}
	switch s.TocStyle {
	case TocClassic, TocModern, TocMinimal:
	default:
		s.TocStyle = TocClassic
	}
	switch s.CcStyle {
	case ChapterCoverBold, ChapterCoverElegant, ChapterCoverStripe:
	default:
		s.CcStyle = ChapterCoverBold
	}
	return s
}
