package template

import "pageforge/model"

// FontImport loads the faces used by the generated pages.
const FontImport = `@import url('https://fonts.googleapis.com/css2?family=Montserrat:wght@400;600;700&family=Open+Sans:wght@400;600&display=swap');`

// PrintCSS sets up A4 pages with one .pf-page per sheet.
const PrintCSS = `@page{size:A4;margin:0}*,*::before,*::after{box-sizing:border-box}
html,body{margin:0;padding:0;width:210mm}
.pf-page{width:210mm;min-height:297mm;page-break-after:always;overflow:hidden;position:relative}
.pf-page:last-child{page-break-after:auto}`

// PreviewZoomCSS scales a single page to thumbnail size. Width is A4 at 96dpi.
const PreviewZoomCSS = `html{zoom:%s;overflow:hidden!important}body{overflow:hidden!important;width:794px;margin:0}`

// EpubCSS is the reader stylesheet shared by the generated EPUB pages.
const EpubCSS = `
body {
  margin: 0;
  padding: 0;
}

.pf-page {
  position: relative;
  margin: 0 auto;
  box-sizing: border-box;
}

.toc-entry {
  display: flex;
  justify-content: space-between;
}

img {
  max-width: 100%;
  height: auto;
}
`

var tocStyles = map[string]string{
	"classic": `
.toc-page{font-family:'Open Sans',sans-serif;padding:50px 60px;color:#222}
.toc-title{font-family:'Montserrat',sans-serif;font-size:28px;font-weight:700;margin-bottom:8px;color:#003366}
.toc-sub{font-size:12px;color:#888;margin-bottom:40px;padding-bottom:16px;border-bottom:2px solid #003366}
.toc-chapter{font-family:'Montserrat',sans-serif;font-size:14px;font-weight:700;color:#003366;margin:20px 0 6px;text-transform:uppercase;letter-spacing:0.5px}
.toc-entry{display:flex;align-items:baseline;padding:5px 0;font-size:12px;border-bottom:1px dotted #ccc}
.toc-entry-title{flex:1}
.toc-entry-nr{font-weight:600;color:#003366;min-width:30px;text-align:right}
.toc-footer{position:absolute;bottom:30px;left:60px;right:60px;font-size:8px;color:#999;display:flex;justify-content:space-between;border-top:1px solid #e0e0e0;padding-top:6px}
`,
	"modern": `
.toc-page{font-family:'Open Sans',sans-serif;padding:50px 55px;color:#333}
.toc-title{font-family:'Montserrat',sans-serif;font-size:32px;font-weight:700;color:#fff;background:#003366;margin:-50px -55px 30px;padding:50px 55px 30px}
.toc-sub{font-size:11px;color:rgba(255,255,255,0.7);margin-top:6px}
.toc-chapter{font-family:'Montserrat',sans-serif;font-size:11px;font-weight:700;color:#fff;background:#B87333;padding:6px 14px;margin:18px 0 8px;border-radius:4px;text-transform:uppercase;letter-spacing:1px}
.toc-entry{display:flex;align-items:baseline;padding:7px 0;font-size:12px}
.toc-entry-title{flex:1}
.toc-entry-nr{font-weight:700;color:#B87333;font-size:14px;min-width:30px;text-align:right}
.toc-footer{position:absolute;bottom:30px;left:55px;right:55px;font-size:8px;color:#999;display:flex;justify-content:space-between}
`,
	"minimal": `
.toc-page{font-family:'Open Sans',sans-serif;padding:80px 70px;color:#333}
.toc-title{font-family:'Montserrat',sans-serif;font-size:22px;font-weight:400;color:#333;margin-bottom:50px;letter-spacing:2px;text-transform:uppercase}
.toc-sub{display:none}
.toc-chapter{font-size:10px;font-weight:600;color:#999;margin:30px 0 8px;text-transform:uppercase;letter-spacing:2px}
.toc-entry{display:flex;align-items:baseline;padding:6px 0;font-size:13px}
.toc-entry-title{flex:1;color:#333}
.toc-entry-nr{color:#999;font-size:12px;min-width:30px;text-align:right}
.toc-footer{position:absolute;bottom:50px;left:70px;right:70px;font-size:8px;color:#bbb;display:flex;justify-content:space-between}
`,
}

var chapterCoverStyles = map[string]string{
	"bold": `
.cc-page{font-family:'Montserrat',sans-serif;position:relative;width:100%;height:100%;display:flex;align-items:center;justify-content:center;background:#003366;color:#fff}
.cc-nr{position:absolute;top:50px;left:60px;font-size:80px;font-weight:700;color:rgba(255,255,255,0.1)}
.cc-center{text-align:center;padding:40px}
.cc-label{font-size:11px;text-transform:uppercase;letter-spacing:3px;color:#B87333;margin-bottom:16px}
.cc-title{font-size:38px;font-weight:700;line-height:1.2;margin-bottom:12px}
.cc-sub{font-size:13px;color:rgba(255,255,255,0.6)}
.cc-footer{position:absolute;bottom:30px;left:60px;right:60px;font-size:8px;color:rgba(255,255,255,0.4);display:flex;justify-content:space-between}
`,
	"elegant": `
.cc-page{font-family:'Montserrat',sans-serif;position:relative;width:100%;height:100%;display:flex;align-items:center;justify-content:center;background:#fff;color:#222}
.cc-nr{display:none}
.cc-center{text-align:center;padding:40px;max-width:500px}
.cc-label{font-size:10px;text-transform:uppercase;letter-spacing:4px;color:#B87333;margin-bottom:20px}
.cc-title{font-size:32px;font-weight:600;line-height:1.3;margin-bottom:20px;padding-bottom:20px;border-bottom:2px solid #B87333}
.cc-sub{font-size:12px;color:#888}
.cc-footer{position:absolute;bottom:30px;left:60px;right:60px;font-size:8px;color:#bbb;display:flex;justify-content:space-between;border-top:1px solid #e0e0e0;padding-top:6px}
`,
	"stripe": `
.cc-page{font-family:'Montserrat',sans-serif;position:relative;width:100%;height:100%;display:flex;align-items:center;background:#fff;color:#222}
.cc-page::before{content:'';position:absolute;left:0;top:0;bottom:0;width:80px;background:#003366}
.cc-nr{position:absolute;left:0;top:50%;transform:translateY(-50%) rotate(-90deg);font-size:14px;font-weight:700;color:rgba(255,255,255,0.6);letter-spacing:3px;text-transform:uppercase;width:200px;text-align:center;transform-origin:center}
.cc-center{padding:40px 60px 40px 120px}
.cc-label{font-size:10px;text-transform:uppercase;letter-spacing:3px;color:#B87333;margin-bottom:12px}
.cc-title{font-size:36px;font-weight:700;line-height:1.2;margin-bottom:10px;color:#003366}
.cc-sub{font-size:12px;color:#888}
.cc-footer{position:absolute;bottom:30px;left:120px;right:60px;font-size:8px;color:#bbb;display:flex;justify-content:space-between}
`,
}

// TocCSS returns the stylesheet of a table of contents variant, falling back
// to classic for unknown names.
func TocCSS(style model.TocStyle) string {
	if css, ok := tocStyles[string(style)]; ok {
		return css
	}
	return tocStyles[string(model.TocClassic)]
}

// ChapterCoverCSS returns the stylesheet of a chapter cover variant, falling
// back to bold.
func ChapterCoverCSS(style model.ChapterCoverStyle) string {
	if css, ok := chapterCoverStyles[string(style)]; ok {
		return css
	}
	return chapterCoverStyles[string(model.ChapterCoverBold)]
}
