package query

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

// ServerData holds the in-memory API maps the server queries against.
// Reload swaps in a freshly loaded snapshot; readers always see a
// consistent one.
type ServerData struct {
	mu              sync.RWMutex
	apiMapsPath     string
	geneSubsetsPath string
	subsetPrefixes  []string
	maps            *domain.APIMaps
	log             *logger.Logger
}

// NewServerData loads the API maps file (gzipped or plain JSON) and, if
// configured, the extra gene subsets file.  Subset names carrying one of
// the server config's strip prefixes also register under the stripped
// name, so queries work with or without the prefix.
func NewServerData(apiMapsPath, geneSubsetsPath string, serverCfg config.ServerConfig, log *logger.Logger) (*ServerData, error) {
	data := &ServerData{
		apiMapsPath:     apiMapsPath,
		geneSubsetsPath: geneSubsetsPath,
		subsetPrefixes:  serverCfg.SubsetPrefixesToStrip,
		log:             log,
	}
	if err := data.Reload(); err != nil {
		return nil, err
	}
	return data, nil
}

// Reload re-reads the data files and atomically replaces the snapshot.
// On failure the previous snapshot stays in place.
func (s *ServerData) Reload() error {
	maps, err := loadAPIMaps(s.apiMapsPath)
	if err != nil {
		return err
	}
	if s.geneSubsetsPath != "" {
		if err := mergeGeneSubsets(maps, s.geneSubsetsPath); err != nil {
			return err
		}
	}
	registerSubsetAliases(maps, s.subsetPrefixes)
	s.mu.Lock()
	s.maps = maps
	s.mu.Unlock()
	s.log.Info("loaded server data",
		"genes", len(maps.Genes),
		"terms", len(maps.Terms),
		"references", len(maps.References))
	return nil
}

// Maps returns the current snapshot.  The returned value must be treated
// as read-only.
func (s *ServerData) Maps() *domain.APIMaps {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maps
}

func (s *ServerData) GetGene(uniquename string) *domain.GeneDetails {
	return s.Maps().Genes[uniquename]
}

func (s *ServerData) GetGenotype(uniquename string) *domain.GenotypeDetails {
	return s.Maps().Genotypes[uniquename]
}

func (s *ServerData) GetTerm(termid string) *domain.TermDetails {
	return s.Maps().Terms[termid]
}

func (s *ServerData) GetReference(uniquename string) *domain.ReferenceDetails {
	return s.Maps().References[uniquename]
}

// Exec runs a query against the current snapshot.
func (s *ServerData) Exec(q *Query) ([]ResultRow, error) {
	return Exec(q, s.Maps())
}

// registerSubsetAliases files each prefixed subset under its stripped
// name too.  Existing names are never overwritten.
func registerSubsetAliases(maps *domain.APIMaps, prefixes []string) {
	aliases := map[string]*domain.GeneSubsetDetails{}
	for _, prefix := range prefixes {
		for name, subset := range maps.GeneSubsets {
			alias := strings.TrimPrefix(name, prefix)
			if alias == name || alias == "" {
				continue
			}
			aliases[alias] = subset
		}
	}
	for alias, subset := range aliases {
		if _, exists := maps.GeneSubsets[alias]; !exists {
			maps.GeneSubsets[alias] = subset
		}
	}
}

func loadAPIMaps(path string) (*domain.APIMaps, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open api maps file: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gzReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream %s: %w", path, err)
		}
		defer gzReader.Close()
		reader = gzReader
	}

	var maps domain.APIMaps
	if err := json.NewDecoder(reader).Decode(&maps); err != nil {
		return nil, fmt.Errorf("decode api maps %s: %w", path, err)
	}
	return &maps, nil
}

// mergeGeneSubsets adds subsets from a standalone JSON file, overriding
// same-named subsets from the maps file.
func mergeGeneSubsets(maps *domain.APIMaps, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read gene subsets file: %w", err)
	}
	var subsets map[string]*domain.GeneSubsetDetails
	if err := json.Unmarshal(raw, &subsets); err != nil {
		return fmt.Errorf("decode gene subsets %s: %w", path, err)
	}
	if maps.GeneSubsets == nil {
		maps.GeneSubsets = map[string]*domain.GeneSubsetDetails{}
	}
	for name, subset := range subsets {
		maps.GeneSubsets[name] = subset
	}
	return nil
}
