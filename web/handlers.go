package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/siherrmann/wikigrapher/core/ontology"
	"github.com/siherrmann/wikigrapher/export"
	"github.com/siherrmann/wikigrapher/model"
	g "maragu.dev/gomponents"
)

const defaultListLimit = 500

var (
	FormatHTML = export.Format{Name: "html", MediaType: "text/html", Extension: ".html"}
	FormatJSON = export.Format{Name: "json", MediaType: "application/json", Extension: ".json"}
)

// resourceFormats are the representations of /resource/{name}, the first
// one answers requests without an Accept header.
var resourceFormats = []export.Format{FormatHTML, export.Turtle, export.NTriples, FormatJSON, export.JSONLD}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) characters(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 {
			s.writeError(w, r, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = parsed
	}

	resources, err := s.reader.ListByType(r.Context(), ontology.Character.String(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format, ok := s.pick(r, FormatHTML, FormatJSON)
	if !ok {
		s.writeError(w, r, http.StatusNotAcceptable, "supported types are text/html and application/json")
		return
	}
	if format.Name == FormatJSON.Name {
		s.writeJSON(w, http.StatusOK, withoutEmbeddings(resources))
		return
	}
	s.render(w, http.StatusOK, characterListPage(resources))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var results []*model.RetrievalResult
	if query != "" {
		var err error
		results, err = s.runSearch(r, query)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}

	format, ok := s.pick(r, FormatHTML, FormatJSON)
	if !ok {
		s.writeError(w, r, http.StatusNotAcceptable, "supported types are text/html and application/json")
		return
	}
	if format.Name == FormatJSON.Name {
		for _, result := range results {
			result.Resource = withoutEmbedding(result.Resource)
		}
		s.writeJSON(w, http.StatusOK, results)
		return
	}
	s.render(w, http.StatusOK, searchPage(query, results))
}

func (s *Server) runSearch(r *http.Request, query string) ([]*model.RetrievalResult, error) {
	if s.searcher != nil {
		config := model.DefaultQueryConfig()
		return s.searcher.Search(r.Context(), query, &config)
	}

	resources, err := s.reader.SearchByLabel(r.Context(), query, 50)
	if err != nil {
		return nil, err
	}
	results := make([]*model.RetrievalResult, len(resources))
	for i, resource := range resources {
		results[i] = &model.RetrievalResult{
			Resource:        resource,
			Score:           1.0 / float64(i+1),
			RetrievalMethod: "label",
		}
	}
	return results, nil
}

func (s *Server) resource(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || strings.TrimSpace(name) == "" {
		s.writeError(w, r, http.StatusBadRequest, "invalid resource name")
		return
	}

	format, ok := s.pick(r, resourceFormats...)
	if !ok {
		s.writeError(w, r, http.StatusNotAcceptable, "no acceptable representation")
		return
	}

	description, err := s.reader.Describe(r.Context(), ontology.Resource(name).String())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	switch format.Name {
	case FormatHTML.Name:
		s.render(w, http.StatusOK, resourcePage(description))
	case FormatJSON.Name:
		s.writeJSON(w, http.StatusOK, &model.ResourceDescription{
			Resource: withoutEmbedding(description.Resource),
			Outgoing: description.Outgoing,
			Incoming: description.Incoming,
		})
	default:
		stored := append(append([]*model.StoredTriple{}, description.Outgoing...), description.Incoming...)
		w.Header().Set("Content-Type", format.MediaType+"; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := export.Write(w, export.FromStoredAll(stored), format); err != nil {
			s.logger.Error("Error writing resource", slog.String("format", format.Name), slog.String("error", err.Error()))
		}
	}
}

// pick chooses a representation. The format query parameter wins over the
// Accept header.
func (s *Server) pick(r *http.Request, offers ...export.Format) (export.Format, bool) {
	if name := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format"))); name != "" {
		for _, offer := range offers {
			if name == offer.Name || "."+name == offer.Extension {
				return offer, true
			}
		}
		if format, err := export.FormatByName(name); err == nil {
			for _, offer := range offers {
				if offer.Name == format.Name {
					return offer, true
				}
			}
		}
		return export.Format{}, false
	}
	return export.Negotiate(r.Header.Get("Accept"), offers...)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrResourceNotFound) {
		s.writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	s.logger.Error("Request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	s.writeError(w, r, http.StatusInternalServerError, "internal error")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if format, ok := export.Negotiate(r.Header.Get("Accept"), FormatJSON, FormatHTML); ok && format.Name == FormatHTML.Name {
		s.render(w, status, errorPage(status, message))
		return
	}
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("Error encoding response", slog.String("error", err.Error()))
	}
}

func (s *Server) render(w http.ResponseWriter, status int, page g.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := page.Render(w); err != nil {
		s.logger.Error("Error rendering page", slog.String("error", err.Error()))
	}
}

func withoutEmbedding(resource *model.Resource) *model.Resource {
	if resource == nil || resource.Embedding == nil {
		return resource
	}
	copied := *resource
	copied.Embedding = nil
	return &copied
}

func withoutEmbeddings(resources []*model.Resource) []*model.Resource {
	out := make([]*model.Resource, len(resources))
	for i, resource := range resources {
		out[i] = withoutEmbedding(resource)
	}
	return out
}
