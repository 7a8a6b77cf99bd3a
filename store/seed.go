package store

import (
	"context"

	"pageforge/model"
)

var DefaultCategories = []model.Category{
	{Id: "cover", Name: "Deckblatt", Icon: "📄", IsDefault: true},
	{Id: "toc", Name: "Inhaltsverzeichnis", Icon: "📑", IsDefault: true},
	{Id: "chapter-divider", Name: "Kapiteltrenner", Icon: "📌", IsDefault: true},
	{Id: "workbook", Name: "Workbookseite", Icon: "📝", IsDefault: true},
	{Id: "content", Name: "Inhaltsseite", Icon: "📖", IsDefault: true},
	{Id: "glossary", Name: "Glossar", Icon: "📚", IsDefault: true},
	{Id: "copyright", Name: "Urhebernote", Icon: "©️", IsDefault: true},
	{Id: "notes", Name: "Notizseite", Icon: "🗒️", IsDefault: true},
	{Id: "appendix", Name: "Anhang", Icon: "📎", IsDefault: true},
}

var DefaultCssTemplates = []model.CssTemplate{
	{
		Id:          "workshop-style",
		Name:        "Workshop Style",
		Description: "Professionell für Workshops",
		Css: `body { font-family: 'Segoe UI', system-ui, sans-serif; color: #2d3748; line-height: 1.6; padding: 25mm; }
h1 { color: #1a365d; font-size: 28pt; border-bottom: 3px solid #3182ce; padding-bottom: 8px; }
h2 { color: #2b6cb0; font-size: 20pt; } h3 { color: #2c5282; font-size: 16pt; }
.highlight { background: #ebf8ff; border-left: 4px solid #3182ce; padding: 12px 16px; margin: 16px 0; }
table { width: 100%; border-collapse: collapse; } th { background: #2b6cb0; color: white; padding: 10px; }
td { padding: 8px 10px; border-bottom: 1px solid #e2e8f0; } tr:nth-child(even) { background: #f7fafc; }`,
	},
	{
		Id:          "minimal-style",
		Name:        "Minimal Clean",
		Description: "Minimalistisch modern",
		Css: `body { font-family: 'Helvetica Neue', sans-serif; color: #333; line-height: 1.8; padding: 25mm; }
h1 { font-size: 26pt; font-weight: 700; color: #111; } h2 { font-size: 18pt; color: #222; }
h3 { font-size: 14pt; color: #444; text-transform: uppercase; letter-spacing: 1px; }
.highlight { background: #f5f5f5; padding: 16px; margin: 16px 0; border-radius: 4px; }`,
	},
}

var DefaultPageTemplates = []model.PageTemplate{
	{
		Id: "tpl-cover", Name: "Deckblatt", Description: "Titelseite mit Platzhaltern", Category: "cover",
		HtmlContent: `<!DOCTYPE html><html><head><meta charset="UTF-8"><style>
body { margin: 0; padding: 0; font-family: 'Segoe UI', system-ui, sans-serif; }
.cover { width: 210mm; height: 297mm; display: flex; flex-direction: column; justify-content: center; align-items: center; text-align: center; background: linear-gradient(135deg, #1a365d 0%, #2b6cb0 100%); color: white; }
.cover h1 { font-size: 42pt; font-weight: 300; margin: 0 40mm; line-height: 1.2; }
.cover .subtitle { font-size: 18pt; opacity: .7; margin-top: 20px; }
.cover .meta { position: absolute; bottom: 60px; font-size: 12pt; opacity: .5; }
</style></head><body>
<div class="cover">
  <h1>{{collection}}</h1>
  <div class="subtitle">{{untertitel}}</div>
  <div class="meta">{{datum}} · {{autor}}</div>
</div>
</body></html>`,
	},
	{
		Id: "tpl-chapter", Name: "Kapitelseite", Description: "Kapitel-Trennseite", Category: "chapter-divider",
		HtmlContent: `<!DOCTYPE html><html><head><meta charset="UTF-8"><style>
body { margin: 0; font-family: 'Segoe UI', system-ui, sans-serif; }
.ch-page { width: 210mm; height: 297mm; display: flex; align-items: center; padding: 0 30mm; background: #f8f9fa; }
.ch-inner { border-left: 6px solid #3182ce; padding-left: 30px; }
.ch-nr { font-size: 14pt; color: #3182ce; text-transform: uppercase; letter-spacing: 3px; font-weight: 600; }
.ch-title { font-size: 36pt; color: #1a365d; font-weight: 300; margin: 8px 0 0; }
</style></head><body>
<div class="ch-page"><div class="ch-inner">
  <div class="ch-nr">Kapitel {{kapitelnr}}</div>
  <h1 class="ch-title">{{kapitel}}</h1>
</div></div>
</body></html>`,
	},
	{
		Id: "tpl-content", Name: "Inhaltsseite", Description: "Standard-Textseite mit Header/Footer", Category: "content",
		HtmlContent: `<!DOCTYPE html><html><head><meta charset="UTF-8"><style>
body { font-family: 'Segoe UI', system-ui, sans-serif; color: #2d3748; line-height: 1.7; margin: 0; padding: 25mm 25mm 20mm; min-height: 297mm; width: 210mm; box-sizing: border-box; position: relative; }
.page-header { position: absolute; top: 10mm; left: 25mm; right: 25mm; display: flex; justify-content: space-between; font-size: 9pt; color: #a0aec0; border-bottom: 1px solid #e2e8f0; padding-bottom: 4px; }
.page-footer { position: absolute; bottom: 10mm; left: 25mm; right: 25mm; display: flex; justify-content: space-between; font-size: 9pt; color: #a0aec0; border-top: 1px solid #e2e8f0; padding-top: 4px; }
h1 { color: #1a365d; font-size: 22pt; border-bottom: 2px solid #3182ce; padding-bottom: 6px; }
h2 { color: #2b6cb0; font-size: 16pt; margin-top: 24px; }
.highlight { background: #ebf8ff; border-left: 4px solid #3182ce; padding: 12px 16px; margin: 16px 0; border-radius: 0 4px 4px 0; }
</style></head><body>
<div class="page-header"><span>{{collection}} – {{kapitel}}</span><span>Seite {{seitenzahl}} / {{gesamtseiten}}</span></div>
<h1>{{seitentitel}}</h1>
<p>Inhalt hier einfügen…</p>
<div class="page-footer"><span>{{copyright}}</span><span>{{datum}}</span></div>
</body></html>`,
	},
	{
		Id: "tpl-exercise", Name: "Übungsseite", Description: "Seite mit Übungen und Checkboxen", Category: "workbook",
		HtmlContent: `<!DOCTYPE html><html><head><meta charset="UTF-8"><style>
body { font-family: 'Segoe UI', system-ui, sans-serif; color: #2d3748; line-height: 1.6; margin: 0; padding: 25mm; min-height: 297mm; width: 210mm; box-sizing: border-box; }
h1 { color: #1a365d; font-size: 20pt; }
.exercise { background: #f7fafc; border: 1px solid #e2e8f0; border-radius: 6px; padding: 16px; margin: 12px 0; }
.exercise h3 { margin: 0 0 8px; font-size: 12pt; color: #2c5282; }
.check-item { display: flex; align-items: flex-start; gap: 8px; margin: 6px 0; }
.check-box { width: 16px; height: 16px; border: 2px solid #a0aec0; border-radius: 3px; flex-shrink: 0; margin-top: 2px; }
.lines { border-bottom: 1px solid #e2e8f0; height: 28px; margin: 4px 0; }
</style></head><body>
<h1>{{kapitel}} – Übungen</h1>
<div class="exercise">
  <h3>Übung 1: Reflexion</h3>
  <div class="lines"></div><div class="lines"></div><div class="lines"></div>
</div>
<div class="exercise">
  <h3>Übung 2: Checkliste</h3>
  <div class="check-item"><div class="check-box"></div><span>Punkt 1</span></div>
  <div class="check-item"><div class="check-box"></div><span>Punkt 2</span></div>
</div>
</body></html>`,
	},
	{
		Id: "tpl-notes", Name: "Notizseite", Description: "Linierte Notizseite", Category: "notes",
		HtmlContent: `<!DOCTYPE html><html><head><meta charset="UTF-8"><style>
body { font-family: 'Segoe UI', system-ui, sans-serif; margin: 0; padding: 20mm 25mm; min-height: 297mm; width: 210mm; box-sizing: border-box; }
h2 { font-size: 14pt; color: #4a5568; margin: 0 0 16px; }
.note-line { border-bottom: 1px solid #e2e8f0; height: 32px; }
.note-line:nth-child(odd) { background: #f8f9fa; }
</style></head><body>
<h2>Notizen – {{kapitel}}</h2>
<div class="note-line"></div><div class="note-line"></div><div class="note-line"></div>
<div class="note-line"></div><div class="note-line"></div><div class="note-line"></div>
</body></html>`,
	},
}

// Seed writes the default categories and templates into stores that are
// still empty.
func Seed(ctx context.Context, s Store) error {
	if err := seed(ctx, s, Categories, DefaultCategories, func(c model.Category) string { return c.Id }); err != nil {
		return err
	}
	if err := seed(ctx, s, CssTemplates, DefaultCssTemplates, func(c model.CssTemplate) string { return c.Id }); err != nil {
		return err
	}
	return seed(ctx, s, PageTemplates, DefaultPageTemplates, func(p model.PageTemplate) string { return p.Id })
}

func seed[T any](ctx context.Context, s Store, store string, defaults []T, id func(T) string) error {
	existing, err := s.GetAll(ctx, store)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, v := range defaults {
		if err := PutJSON(ctx, s, store, id(v), v); err != nil {
			return err
		}
	}
	return nil
}
