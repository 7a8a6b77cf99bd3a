package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"pageforge/compose"
	"pageforge/layout"
	"pageforge/model"
	"pageforge/preview"
	"pageforge/store"
)

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeHTML(w http.ResponseWriter, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// statusOf maps domain errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrEmptyCollection), errors.Is(err, model.ErrSnippetNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrIndexOutOfRange), errors.Is(err, model.ErrInvalidTarget), errors.Is(err, errPagePosition):
		return http.StatusBadRequest
	case errors.Is(err, errPageNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	jsonError(w, err.Error(), status)
}

func (s *Server) scale(r *http.Request) float64 {
	if v := r.URL.Query().Get("scale"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 4 {
			return f
		}
	}
	return s.cfg.Scale
}

type collectionSummary struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Chapters int    `json:"chapters"`
	Pages    int    `json:"pages"`
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	cols, err := s.lib.Collections(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]collectionSummary, 0, len(cols))
	for _, c := range cols {
		out = append(out, collectionSummary{Id: c.Id, Name: c.Name, Chapters: c.ChapterCount(), Pages: c.CountPages()})
	}
	writeJSON(w, map[string]any{"collections": out})
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	c, err := s.lib.Collection(r.Context(), chi.URLParam(r, "colID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, c)
}

type snippetSummary struct {
	Id       string       `json:"id"`
	Title    string       `json:"title"`
	Category string       `json:"category,omitempty"`
	Status   model.Status `json:"status,omitempty"`
	Tags     []string     `json:"tags,omitempty"`
	Version  int          `json:"version"`
}

func (s *Server) handleListSnippets(w http.ResponseWriter, r *http.Request) {
	list, err := s.lib.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]snippetSummary, 0, len(list))
	for _, sn := range list {
		out = append(out, snippetSummary{Id: sn.Id, Title: sn.Title, Category: sn.Category, Status: sn.Status, Tags: sn.Tags, Version: sn.Version})
	}
	writeJSON(w, map[string]any{"snippets": out})
}

func (s *Server) document(ctx context.Context, id string) (*model.Collection, *compose.Document, error) {
	c, err := s.lib.Collection(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	src, err := s.lib.LoadSource(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	doc, err := s.builder.Build(ctx, c, c.Settings(), src)
	if err != nil {
		return nil, nil, err
	}
	return c, doc, nil
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	_, doc, err := s.document(r.Context(), chi.URLParam(r, "colID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, doc.Html)
}

func (s *Server) handlePDF(w http.ResponseWriter, r *http.Request) {
	if s.printer == nil {
		jsonError(w, "pdf printing is not available", http.StatusServiceUnavailable)
		return
	}
	c, doc, err := s.document(r.Context(), chi.URLParam(r, "colID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pdf, err := s.printer.PDF(r.Context(), doc.Html)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `inline; filename="`+c.Id+`.pdf"`)
	w.Write(pdf)
}

var (
	errPagePosition = errors.New("item and page must be numbers")
	errPageNotFound = errors.New("page not found")
)

// pageThumbnail renders one page of a collection with the values it has in
// the print document.
func (s *Server) pageThumbnail(r *http.Request, scale float64) (string, error) {
	ctx := r.Context()
	item, err1 := strconv.Atoi(chi.URLParam(r, "item"))
	pos, err2 := strconv.Atoi(chi.URLParam(r, "pos"))
	if err1 != nil || err2 != nil {
		return "", errPagePosition
	}
	c, err := s.lib.Collection(ctx, chi.URLParam(r, "colID"))
	if err != nil {
		return "", err
	}
	src, err := s.lib.LoadSource(ctx, c)
	if err != nil {
		return "", err
	}
	seq, err := layout.Flatten(c, c.Settings(), src.Snippets)
	if err != nil {
		return "", err
	}
	i, ok := seq.Find(item, pos)
	if !ok {
		return "", errPageNotFound
	}
	return s.preview.WithImages(src.Images).Thumbnail(seq.Entries[i].Snippet, seq.Vars(i, s.now()), c.MasterCss, scale)
}

func (s *Server) handlePageThumbnail(w http.ResponseWriter, r *http.Request) {
	html, err := s.pageThumbnail(r, s.scale(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, html)
}

// handlePageImage captures the page thumbnail as PNG at the frame size of
// the requested scale.
func (s *Server) handlePageImage(w http.ResponseWriter, r *http.Request) {
	if s.printer == nil {
		jsonError(w, "page images are not available", http.StatusServiceUnavailable)
		return
	}
	scale := s.scale(r)
	html, err := s.pageThumbnail(r, scale)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	width, height := preview.ThumbnailSize(scale)
	png, err := s.printer.Screenshot(r.Context(), html, width, height)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// handleSnippetPreview renders a single snippet outside any collection,
// with placeholders shown as badges unless raw=1.
func (s *Server) handleSnippetPreview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sn, err := s.lib.Snippet(ctx, chi.URLParam(r, "snipID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	images, err := s.lib.ImageMap(ctx)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	renderer := s.preview.WithImages(images)
	var html string
	if r.URL.Query().Get("raw") == "1" {
		html, err = renderer.Thumbnail(sn, nil, "", s.scale(r))
	} else {
		html, err = renderer.Highlighted(sn, "", s.scale(r))
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeHTML(w, html)
}
