package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

func TestTermComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/terms/select" {
			t.Errorf("path = %q", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("q") != "transp" {
			t.Errorf("q = %q", query.Get("q"))
		}
		if query.Get("fq") != "cv_name:molecular_function" {
			t.Errorf("fq = %q", query.Get("fq"))
		}
		fmt.Fprint(w, `{"response": {"docs": [
			{"id": "GO:0005215", "name": "transporter activity", "cv_name": "molecular_function"}
		]}}`)
	}))
	defer server.Close()

	client := NewClient(config.ServerConfig{SolrURL: server.URL}, logger.NewNop())
	matches, err := client.TermComplete(context.Background(), "molecular_function", "transp")
	if err != nil {
		t.Fatalf("term complete failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].ID != "GO:0005215" || matches[0].Name != "transporter activity" {
		t.Errorf("match = %+v", matches[0])
	}
}

func TestTermCompleteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(config.ServerConfig{SolrURL: server.URL}, logger.NewNop())
	if _, err := client.TermComplete(context.Background(), "molecular_function", "x"); err == nil {
		t.Fatalf("expected an error from a failing search server")
	}
}

func TestTermCompleteNoSolrURL(t *testing.T) {
	client := NewClient(config.ServerConfig{}, logger.NewNop())
	if _, err := client.TermComplete(context.Background(), "molecular_function", "x"); err == nil {
		t.Fatalf("expected an error without a solr url")
	}
}
