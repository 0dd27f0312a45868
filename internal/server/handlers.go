package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/hyperjump/mdindex/internal/frontmatter"
	"github.com/hyperjump/mdindex/internal/headings"
	"github.com/hyperjump/mdindex/internal/models"
	"github.com/hyperjump/mdindex/internal/render"
	"github.com/hyperjump/mdindex/internal/scanner"
	"go.uber.org/zap"
)

type dateRangeRequest struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Directory string `json:"directory"`
}

type textRequest struct {
	Text string `json:"text"`
}

type headingsResponse struct {
	Headings []headings.Heading `json:"headings"`
	TOC      string             `json:"toc"`
}

type frontmatterResponse struct {
	Frontmatter *frontmatter.Map `json:"frontmatter"`
	Body        string           `json:"body"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query.Directory = s.directory(query.Directory)
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("max_results", query.MaxResults))
	response, err := s.engine.Search(r.Context(), &query)
	if err != nil {
		s.respondEngineError(w, "search failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleSearchTags(w http.ResponseWriter, r *http.Request) {
	var query models.TagQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query.Directory = s.directory(query.Directory)
	s.logger.Debug("tag search request", zap.Strings("tags", query.Tags))
	list, err := s.engine.SearchByTags(r.Context(), &query)
	if err != nil {
		s.respondEngineError(w, "tag search failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleSearchDates(w http.ResponseWriter, r *http.Request) {
	var req dateRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	query, err := models.NewDateRangeQuery(req.Start, req.End, s.directory(req.Directory))
	if err != nil {
		s.respondEngineError(w, "date search failed", err)
		return
	}
	list, err := s.engine.SearchByDateRange(r.Context(), query)
	if err != nil {
		s.respondEngineError(w, "date search failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	paths, err := s.engine.ListFiles(r.Context(), s.directory(q.Get("directory")), q["ext"])
	if err != nil {
		s.respondEngineError(w, "list files failed", err)
		return
	}
	if paths == nil {
		paths = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"files": paths, "count": len(paths)})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	stats, err := s.engine.DirectoryStats(r.Context(), s.directory(q.Get("directory")), q["ext"])
	if err != nil {
		s.respondEngineError(w, "directory stats failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.loadDocument(r.URL.Query().Get("path"))
	if err != nil {
		s.respondEngineError(w, "load document failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleGetDocumentHTML(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	doc, err := s.loadDocument(q.Get("path"))
	if err != nil {
		s.respondEngineError(w, "load document failed", err)
		return
	}
	withTOC := true
	if v := q.Get("toc"); v != "" {
		if withTOC, err = strconv.ParseBool(v); err != nil {
			s.respondError(w, http.StatusBadRequest, "toc must be a boolean")
			return
		}
	}
	html, err := render.HTML(doc.Body, withTOC)
	if err != nil {
		s.respondEngineError(w, "render failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleHeadings(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	hs := headings.Extract(req.Text)
	if hs == nil {
		hs = []headings.Heading{}
	}
	s.respondJSON(w, http.StatusOK, headingsResponse{Headings: hs, TOC: headings.TOC(hs)})
}

func (s *Server) handleFrontmatter(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	fm, body := s.engine.ParseFrontmatter(req.Text)
	if fm == nil {
		fm = frontmatter.NewMap()
	}
	s.respondJSON(w, http.StatusOK, frontmatterResponse{Frontmatter: fm, Body: body})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) directory(dir string) string {
	if dir == "" {
		return s.defaultDir
	}
	return dir
}

// loadDocument loads path, confined to the default directory when the server is restricted.
func (s *Server) loadDocument(path string) (*models.Document, error) {
	if s.config != nil && s.config.RestrictToDirectory {
		return s.engine.LoadDocumentIn(s.defaultDir, path)
	}
	return s.engine.LoadDocument(path)
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidQuery), errors.Is(err, scanner.ErrNotDirectory):
		return http.StatusBadRequest
	case errors.Is(err, scanner.ErrOutsideDirectory):
		return http.StatusForbidden
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondEngineError(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(msg, zap.Error(err))
	} else {
		s.logger.Debug(msg, zap.Error(err))
	}
	s.respondError(w, status, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
