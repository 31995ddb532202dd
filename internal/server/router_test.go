package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
	"github.com/kimrutherford/pombase-chado-json/internal/http/handlers"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
	"github.com/kimrutherford/pombase-chado-json/internal/query"
	"github.com/kimrutherford/pombase-chado-json/internal/search"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	maps := &domain.APIMaps{
		Genes: map[string]*domain.GeneDetails{
			"SPAC1.01": {Uniquename: "SPAC1.01", Name: "abc1", Product: "transporter"},
		},
		Terms: map[string]*domain.TermDetails{
			"GO:0000001": {TermID: "GO:0000001", Name: "GO term one"},
		},
		GenesByTermID: map[string][]string{
			"GO:0000001": {"SPAC1.01"},
		},
		GeneQueryData: map[string]*domain.GeneQueryData{
			"SPAC1.01": {GeneUniquename: "SPAC1.01"},
		},
		GeneSummaries: map[string]*domain.APIGeneSummary{
			"SPAC1.01": {Uniquename: "SPAC1.01", Name: "abc1"},
		},
	}

	mapsPath := filepath.Join(t.TempDir(), "api_maps.json.gz")
	file, err := os.Create(mapsPath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	gzWriter := gzip.NewWriter(file)
	if err := json.NewEncoder(gzWriter).Encode(maps); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := gzWriter.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := query.NewServerData(mapsPath, "", config.ServerConfig{}, logger.NewNop())
	if err != nil {
		t.Fatalf("server data: %v", err)
	}

	webRoot := t.TempDir()
	indexHTML := "<html>app</html>"
	if err := os.WriteFile(filepath.Join(webRoot, "index.html"), []byte(indexHTML), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	searchClient := search.NewClient(config.ServerConfig{}, logger.NewNop())
	handler := handlers.NewDataHandler(data, searchClient, logger.NewNop())
	return NewRouter(RouterConfig{
		DataHandler: handler,
		WebRoot:     webRoot,
		ServiceName: "pombase-server-test",
	})
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestGetGene(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(t, router, http.MethodGet, "/api/v1/dataset/latest/data/gene/SPAC1.01", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var gene domain.GeneDetails
	if err := json.Unmarshal(recorder.Body.Bytes(), &gene); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gene.Uniquename != "SPAC1.01" || gene.Name != "abc1" {
		t.Errorf("gene = %+v", gene)
	}
}

func TestGetGeneNotFound(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(t, router, http.MethodGet, "/api/v1/dataset/latest/data/gene/SPAC9.99", "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "not found") {
		t.Errorf("body = %q", recorder.Body.String())
	}
}

func TestGetTermNotFound(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(t, router, http.MethodGet, "/api/v1/dataset/latest/data/term/GO:9999999", "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", recorder.Code)
	}
}

func TestQueryEndpoint(t *testing.T) {
	router := testRouter(t)
	body := `{"constraints": {"term": {"termid": "GO:0000001"}}}`
	recorder := doRequest(t, router, http.MethodPost, "/api/v1/dataset/latest/query", body)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var result query.Result
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Status != "ok" || len(result.Rows) != 1 {
		t.Fatalf("result = %+v", result)
	}
	if result.Rows[0].GeneUniquename != "SPAC1.01" {
		t.Errorf("row = %+v", result.Rows[0])
	}
}

// Query failures keep the 200 status; the error lands in the result
// status field.
func TestQueryEndpointBadQuery(t *testing.T) {
	router := testRouter(t)
	body := `{"constraints": {"or": []}}`
	recorder := doRequest(t, router, http.MethodPost, "/api/v1/dataset/latest/query", body)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var result query.Result
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Status == "ok" {
		t.Errorf("expected an error status, got %+v", result)
	}
}

// Completion failures also report through the payload, never the HTTP
// status.
func TestCompleteSearchFailure(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(t, router, http.MethodGet, "/api/v1/dataset/latest/complete/molecular_function/transp", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	var completion handlers.CompletionResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &completion); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if completion.Status == "ok" {
		t.Errorf("expected an error status without a search server")
	}
	if completion.Matches == nil || len(completion.Matches) != 0 {
		t.Errorf("matches = %+v, want empty", completion.Matches)
	}
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(t, router, http.MethodGet, "/healthcheck", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
}

func TestStaticFallbackToIndex(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(t, router, http.MethodGet, "/gene/SPAC1.01", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "<html>app</html>") {
		t.Errorf("body = %q", recorder.Body.String())
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := testRouter(t)
	recorder := doRequest(t, router, http.MethodGet, "/healthcheck", "")
	if recorder.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing X-Request-ID header")
	}
}
