package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/envutil"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

// CompletionMatch is one term suggested for an autocomplete query.
type CompletionMatch struct {
	ID         string `json:"id"`
	TermID     string `json:"termid,omitempty"`
	Name       string `json:"name"`
	CvName     string `json:"cv_name,omitempty"`
	Definition string `json:"definition,omitempty"`
}

// Client queries the Solr term index, with an optional Redis cache in
// front (enabled by REDIS_ADDR).
type Client struct {
	solrURL    string
	httpClient *http.Client
	cache      *redis.Client
	cacheTTL   time.Duration
	log        *logger.Logger
}

func NewClient(cfg config.ServerConfig, log *logger.Logger) *Client {
	client := &Client{
		solrURL:    strings.TrimRight(cfg.SolrURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cacheTTL:   time.Minute,
		log:        log.With("component", "search"),
	}
	redisAddr := strings.TrimSpace(envutil.GetEnv("REDIS_ADDR", "", log))
	if redisAddr != "" {
		client.cache = redis.NewClient(&redis.Options{Addr: redisAddr})
		client.log.Info("completion cache enabled", "redis_addr", redisAddr)
	}
	return client
}

type solrSelectResponse struct {
	Response struct {
		Docs []CompletionMatch `json:"docs"`
	} `json:"response"`
}

// TermComplete suggests terms of one ontology matching a query prefix.
func (c *Client) TermComplete(ctx context.Context, cvName, queryText string) ([]CompletionMatch, error) {
	if c.solrURL == "" {
		return nil, fmt.Errorf("no solr url configured")
	}

	cacheKey := "term_complete:" + cvName + ":" + queryText
	if cached, ok := c.cacheGet(ctx, cacheKey); ok {
		return cached, nil
	}

	params := url.Values{}
	params.Set("q", queryText)
	params.Set("fq", "cv_name:"+cvName)
	params.Set("wt", "json")
	params.Set("rows", "20")
	requestURL := c.solrURL + "/terms/select?" + params.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build solr request: %w", err)
	}
	httpResponse, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("solr request: %w", err)
	}
	defer httpResponse.Body.Close()
	if httpResponse.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("solr returned status %d", httpResponse.StatusCode)
	}

	var decoded solrSelectResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode solr response: %w", err)
	}

	c.cacheSet(ctx, cacheKey, decoded.Response.Docs)
	return decoded.Response.Docs, nil
}

// cacheGet returns a cached result; cache failures just miss.
func (c *Client) cacheGet(ctx context.Context, key string) ([]CompletionMatch, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("completion cache get failed", "error", err)
		}
		return nil, false
	}
	var matches []CompletionMatch
	if err := json.Unmarshal([]byte(raw), &matches); err != nil {
		return nil, false
	}
	return matches, true
}

func (c *Client) cacheSet(ctx context.Context, key string, matches []CompletionMatch) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(matches)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
		c.log.Warn("completion cache set failed", "error", err)
	}
}
