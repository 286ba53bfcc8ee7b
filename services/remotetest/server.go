// Package remotetest provides an in-process fake of the URC JKN web app.
package remotetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"urc/models"
)

// ConnectedBody is what a healthy web app answers to the test action
const ConnectedBody = "✅ URC JKN API Connected!"

// Server is a fake web app. Change exported fields through Set once it is serving.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	// Records is the dataset served by get_all.
	Records []models.Record
	// TestBody is returned for the test action.
	TestBody string
	// AllStatus, when non-zero, is the HTTP status returned for get_all.
	AllStatus int
	// AllBody, when set, replaces the get_all response body.
	AllBody string
	// RelawanStatus, when non-zero, is the HTTP status returned for get_by_relawan.
	RelawanStatus int
	// RelawanBody, when set, replaces the get_by_relawan response body.
	RelawanBody string
	// PostStatus, when non-zero, is the HTTP status returned for POST requests.
	PostStatus int

	calls       map[string]int
	rawQueries  []string
	posts       []map[string]interface{}
	contentType []string
}

// New starts a fake web app serving records
func New(records ...models.Record) *Server {
	s := &Server{
		Records:  records,
		TestBody: ConnectedBody,
		calls:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Set changes the server configuration under its lock
func (s *Server) Set(fn func(s *Server)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Calls returns how many requests carried the given action
func (s *Server) Calls(action string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[action]
}

// RawQueries returns the raw query strings of every GET request received
func (s *Server) RawQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.rawQueries...)
}

// Posts returns the decoded bodies of every POST request received
func (s *Server) Posts() []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]map[string]interface{}(nil), s.posts...)
}

// PostContentTypes returns the Content-Type header of every POST request received
func (s *Server) PostContentTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.contentType...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Method == http.MethodPost {
		s.handlePost(w, r)
		return
	}

	action := r.URL.Query().Get("action")
	s.calls[action]++
	s.rawQueries = append(s.rawQueries, r.URL.RawQuery)

	switch action {
	case "test":
		io.WriteString(w, s.TestBody)
	case "get_all":
		if s.AllStatus != 0 {
			w.WriteHeader(s.AllStatus)
		}
		if s.AllBody != "" {
			io.WriteString(w, s.AllBody)
			return
		}
		writeJSON(w, map[string]interface{}{"status": "success", "data": s.records()})
	case "get_by_relawan":
		if s.RelawanStatus != 0 {
			w.WriteHeader(s.RelawanStatus)
		}
		if s.RelawanBody != "" {
			io.WriteString(w, s.RelawanBody)
			return
		}
		// Exact, case-sensitive match like the spreadsheet query it fakes.
		name := r.URL.Query().Get("relawan")
		matched := []models.Record{}
		for _, record := range s.Records {
			if v, ok := record["relawan"].(string); ok && v == name {
				matched = append(matched, record)
			}
		}
		writeJSON(w, map[string]interface{}{"status": "success", "data": matched})
	default:
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]interface{}{"status": "error", "message": "unknown action"})
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, map[string]interface{}{"status": "error", "message": err.Error()})
		return
	}

	action, _ := body["action"].(string)
	s.calls[action]++
	s.posts = append(s.posts, body)
	s.contentType = append(s.contentType, r.Header.Get("Content-Type"))

	if s.PostStatus != 0 {
		w.WriteHeader(s.PostStatus)
		io.WriteString(w, "backend unavailable")
		return
	}

	switch action {
	case "save":
		s.Records = append(s.Records, models.Record(body))
		writeJSON(w, map[string]interface{}{"status": "success", "message": "Data berhasil disimpan", "id": body["id"]})
	case "update":
		writeJSON(w, map[string]interface{}{"status": "success", "message": "Status berhasil diupdate"})
	default:
		writeJSON(w, map[string]interface{}{"status": "error", "message": "unknown action"})
	}
}

func (s *Server) records() []models.Record {
	if s.Records == nil {
		return []models.Record{}
	}
	return s.Records
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
