package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/sync/errgroup"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

// Writer produces the full artifact tree for one dataset under outDir:
// the web-json/, fasta/, gff/ and misc/ families.
type Writer struct {
	cfg    *config.Config
	docs   *config.DocConfig
	outDir string
	log    *logger.Logger
}

// NewWriter builds a writer for outDir.  docs may be nil; the doc site
// pages are then left out of the search documents.
func NewWriter(cfg *config.Config, docs *config.DocConfig, outDir string, log *logger.Logger) *Writer {
	if docs == nil {
		docs = &config.DocConfig{}
	}
	return &Writer{
		cfg:    cfg,
		docs:   docs,
		outDir: outDir,
		log:    log.With("component", "export"),
	}
}

// WriteAll writes every artifact family.  Families run concurrently; the
// first failure aborts the whole export.
func (w *Writer) WriteAll(web *domain.WebData) error {
	var group errgroup.Group
	group.Go(func() error { return w.writeWebJSON(web) })
	group.Go(func() error { return w.writeFasta(web) })
	group.Go(func() error { return w.writeGFF(web) })
	group.Go(func() error { return w.writeMisc(web) })
	group.Go(func() error { return w.writeAnnotationSubsets(web) })
	if w.cfg.FileExports.RNAcentral {
		group.Go(func() error { return w.writeRNAcentral(web) })
	}
	if err := group.Wait(); err != nil {
		return err
	}
	w.log.Info("export finished", "output_dir", w.outDir)
	return nil
}

func (w *Writer) path(parts ...string) string {
	return filepath.Join(append([]string{w.outDir}, parts...)...)
}

func writeJSONFile(path string, value interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	encoder := json.NewEncoder(file)
	if err := encoder.Encode(value); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return file.Close()
}

func writeGzJSONFile(path string, value interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	gzWriter := gzip.NewWriter(file)
	if err := json.NewEncoder(gzWriter).Encode(value); err != nil {
		file.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := gzWriter.Close(); err != nil {
		file.Close()
		return fmt.Errorf("finish gzip %s: %w", path, err)
	}
	return file.Close()
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return file, nil
}

// sortedGenes returns the genes in uniquename order, for stable output.
func sortedGenes(web *domain.WebData) []*domain.GeneDetails {
	genes := make([]*domain.GeneDetails, 0, len(web.Genes))
	for _, gene := range web.Genes {
		genes = append(genes, gene)
	}
	sort.Slice(genes, func(i, j int) bool {
		return genes[i].Uniquename < genes[j].Uniquename
	})
	return genes
}

func sortedChromosomes(web *domain.WebData) []*domain.ChromosomeDetails {
	chromosomes := make([]*domain.ChromosomeDetails, 0, len(web.Chromosomes))
	for _, chromosome := range web.Chromosomes {
		chromosomes = append(chromosomes, chromosome)
	}
	sort.Slice(chromosomes, func(i, j int) bool {
		return chromosomes[i].Name < chromosomes[j].Name
	})
	return chromosomes
}

// chromosomeFileID returns the configured export file id for a
// chromosome, defaulting to its name.
func (w *Writer) chromosomeFileID(name string) string {
	for _, chrConfig := range w.cfg.Chromosomes {
		if chrConfig.Name == name && chrConfig.ExportFileID != "" {
			return chrConfig.ExportFileID
		}
	}
	return name
}
