// Package estest fakes the handful of Elasticsearch endpoints the indexer uses,
// so the real client can be exercised without a cluster.
package estest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
)

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	mappings map[string]json.RawMessage
	docs     map[string]map[string]map[string]any
	fail     int
}

// NewServer starts an empty fake cluster, closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		mappings: make(map[string]json.RawMessage),
		docs:     make(map[string]map[string]map[string]any),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Client returns a real client pointed at the fake, with retries off.
func (s *Server) Client(t testing.TB) *elasticsearch.Client {
	t.Helper()
	c, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{s.URL},
		DisableRetry: true,
	})
	if err != nil {
		t.Fatalf("estest: client: %v", err)
	}
	return c
}

// FailWith makes every document write answer with status until reset with 0.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = status
}

// SeedIndex creates index with the given mapping properties.
func (s *Server) SeedIndex(index string, properties map[string]any) {
	raw, _ := json.Marshal(map[string]any{"properties": properties})
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[index] = raw
	s.docs[index] = make(map[string]map[string]any)
}

func (s *Server) Mapping(index string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mappings[index]
	return m, ok
}

// Docs returns a copy of the documents stored in index.
func (s *Server) Docs(index string) map[string]map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]map[string]any, len(s.docs[index]))
	for id, doc := range s.docs[index] {
		cp := make(map[string]any, len(doc))
		for k, v := range doc {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/":
		writeJSON(w, http.StatusOK, map[string]any{"version": map[string]any{"number": "8.17.0"}, "tagline": "You Know, for Search"})
	case len(parts) == 1 && r.Method == http.MethodHead:
		s.mu.Lock()
		_, ok := s.mappings[parts[0]]
		s.mu.Unlock()
		if ok {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case len(parts) == 1 && r.Method == http.MethodPut:
		s.createIndex(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "_mapping" && r.Method == http.MethodGet:
		s.getMapping(w, parts[0])
	case len(parts) == 3 && parts[1] == "_update" && r.Method == http.MethodPost:
		s.update(w, r, parts[0], parts[2])
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported " + r.Method + " " + r.URL.Path})
	}
}

func (s *Server) createIndex(w http.ResponseWriter, r *http.Request, index string) {
	var body struct {
		Mappings json.RawMessage `json:"mappings"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.mappings[index]; ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  map[string]any{"type": "resource_already_exists_exception"},
			"status": http.StatusBadRequest,
		})
		return
	}
	s.mappings[index] = body.Mappings
	s.docs[index] = make(map[string]map[string]any)
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true, "index": index})
}

func (s *Server) getMapping(w http.ResponseWriter, index string) {
	s.mu.Lock()
	m, ok := s.mappings[index]
	s.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"type": "index_not_found_exception"}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{index: map[string]any{"mappings": m}})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, index, id string) {
	data, _ := io.ReadAll(r.Body)
	var body struct {
		Doc         map[string]any `json:"doc"`
		DocAsUpsert bool           `json:"doc_as_upsert"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": map[string]any{"type": "parse_exception"}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != 0 {
		writeJSON(w, s.fail, map[string]any{"error": map[string]any{"type": "injected_failure"}, "status": s.fail})
		return
	}
	docs, ok := s.docs[index]
	if !ok {
		// auto-created index with dynamic mapping
		docs = make(map[string]map[string]any)
		s.docs[index] = docs
		s.mappings[index] = json.RawMessage(`{}`)
	}
	doc, exists := docs[id]
	if !exists {
		if !body.DocAsUpsert {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"type": "document_missing_exception"}})
			return
		}
		doc = make(map[string]any)
		docs[id] = doc
	}
	for k, v := range body.Doc {
		doc[k] = v
	}
	result, status := "updated", http.StatusOK
	if !exists {
		result, status = "created", http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"_index": index, "_id": id, "result": result})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
