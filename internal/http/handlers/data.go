package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kimrutherford/pombase-chado-json/internal/http/response"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
	"github.com/kimrutherford/pombase-chado-json/internal/query"
	"github.com/kimrutherford/pombase-chado-json/internal/search"
)

// DataHandler serves the dataset lookup, query and completion endpoints.
type DataHandler struct {
	data   *query.ServerData
	search *search.Client
	log    *logger.Logger
}

func NewDataHandler(data *query.ServerData, searchClient *search.Client, log *logger.Logger) *DataHandler {
	return &DataHandler{
		data:   data,
		search: searchClient,
		log:    log.With("component", "handlers"),
	}
}

func (h *DataHandler) GetGene(c *gin.Context) {
	id := c.Param("id")
	gene := h.data.GetGene(id)
	if gene == nil {
		response.RespondError(c, http.StatusNotFound, "not_found",
			fmt.Errorf("gene %s not found", id))
		return
	}
	response.RespondOK(c, gene)
}

func (h *DataHandler) GetGenotype(c *gin.Context) {
	id := c.Param("id")
	genotype := h.data.GetGenotype(id)
	if genotype == nil {
		response.RespondError(c, http.StatusNotFound, "not_found",
			fmt.Errorf("genotype %s not found", id))
		return
	}
	response.RespondOK(c, genotype)
}

func (h *DataHandler) GetTerm(c *gin.Context) {
	id := c.Param("id")
	term := h.data.GetTerm(id)
	if term == nil {
		response.RespondError(c, http.StatusNotFound, "not_found",
			fmt.Errorf("term %s not found", id))
		return
	}
	response.RespondOK(c, term)
}

func (h *DataHandler) GetReference(c *gin.Context) {
	id := c.Param("id")
	reference := h.data.GetReference(id)
	if reference == nil {
		response.RespondError(c, http.StatusNotFound, "not_found",
			fmt.Errorf("reference %s not found", id))
		return
	}
	response.RespondOK(c, reference)
}

// Query runs a boolean gene query.  The response is always 200; failures
// are reported in the result status so the front end can show them.
func (h *DataHandler) Query(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.RespondOK(c, query.Result{Status: err.Error()})
		return
	}
	parsed, err := query.Parse(body)
	if err != nil {
		response.RespondOK(c, query.Result{Status: err.Error()})
		return
	}
	rows, err := h.data.Exec(parsed)
	if err != nil {
		response.RespondOK(c, query.Result{Status: err.Error()})
		return
	}
	if rows == nil {
		rows = []query.ResultRow{}
	}
	response.RespondOK(c, query.Result{Status: "ok", Rows: rows})
}

// CompletionResponse is the autocomplete envelope; a search failure keeps
// the 200 status and reports through the status field.
type CompletionResponse struct {
	Status  string                   `json:"status"`
	Matches []search.CompletionMatch `json:"matches"`
}

func (h *DataHandler) Complete(c *gin.Context) {
	cvName := c.Param("cv_name")
	queryText := strings.TrimPrefix(c.Param("q"), "/")

	matches, err := h.search.TermComplete(c.Request.Context(), cvName, queryText)
	if err != nil {
		h.log.Warn("term completion failed", "cv_name", cvName, "error", err)
		response.RespondOK(c, CompletionResponse{Status: err.Error(), Matches: []search.CompletionMatch{}})
		return
	}
	if matches == nil {
		matches = []search.CompletionMatch{}
	}
	response.RespondOK(c, CompletionResponse{Status: "ok", Matches: matches})
}

func (h *DataHandler) Reload(c *gin.Context) {
	if err := h.data.Reload(); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "reload_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"status": "ok"})
}

func HealthCheck(c *gin.Context) {
	response.RespondOK(c, gin.H{"status": "ok"})
}
