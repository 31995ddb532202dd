package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// writeWebJSON writes the JSON family: the API maps bundle, per-kind
// summary files, the search-index documents and the per-chromosome
// records with their sequence chunks.
func (w *Writer) writeWebJSON(web *domain.WebData) error {
	if err := writeGzJSONFile(w.path("web-json", "api_maps.json.gz"), &web.APIMaps); err != nil {
		return err
	}
	if err := writeJSONFile(w.path("web-json", "gene_summaries.json"), web.GeneSummaries); err != nil {
		return err
	}
	if err := writeJSONFile(w.path("web-json", "metadata.json"), &web.Metadata); err != nil {
		return err
	}
	if err := writeJSONFile(w.path("web-json", "stats.json"), &web.Stats); err != nil {
		return err
	}
	if err := writeJSONFile(w.path("web-json", "recent_references.json"), &web.RecentRefs); err != nil {
		return err
	}
	if err := writeJSONFile(w.path("web-json", "term_subsets.json"), web.APIMaps.TermSubsets); err != nil {
		return err
	}
	if err := writeJSONFile(w.path("web-json", "gene_subsets.json"), web.APIMaps.GeneSubsets); err != nil {
		return err
	}

	solrDir := filepath.Join("web-json", "solr_data")
	if err := writeGzJSONFile(w.path(solrDir, "term_summaries.json.gz"), web.SolrData.TermSummaries); err != nil {
		return err
	}
	if err := writeGzJSONFile(w.path(solrDir, "gene_summaries.json.gz"), web.SolrData.GeneSummaries); err != nil {
		return err
	}
	if err := writeGzJSONFile(w.path(solrDir, "reference_summaries.json.gz"), web.SolrData.ReferenceSummaries); err != nil {
		return err
	}
	if len(w.docs.Pages) > 0 {
		if err := writeGzJSONFile(w.path(solrDir, "docs.json.gz"), w.docs.Pages); err != nil {
			return err
		}
	}

	return w.writeChromosomeJSON(web)
}

func (w *Writer) writeChromosomeJSON(web *domain.WebData) error {
	var summaries []domain.ChromosomeShort
	for _, chromosome := range sortedChromosomes(web) {
		summaries = append(summaries, chromosome.Short())
		path := w.path("web-json", "chromosome", chromosome.Name+".json")
		if err := writeJSONFile(path, chromosome); err != nil {
			return err
		}
		if err := w.writeSequenceChunks(chromosome); err != nil {
			return err
		}
	}
	return writeJSONFile(w.path("web-json", "chromosome_summaries.json"), summaries)
}

// writeSequenceChunks splits a chromosome sequence into fixed-size pieces
// so the front end can fetch a region without the whole chromosome.
func (w *Writer) writeSequenceChunks(chromosome *domain.ChromosomeDetails) error {
	for _, chunkSize := range w.cfg.FileExports.NucleotideChunkSizes {
		if chunkSize <= 0 {
			return fmt.Errorf("invalid sequence chunk size %d", chunkSize)
		}
		dir := w.path("web-json", "chromosome", chromosome.Name,
			"sequence", fmt.Sprintf("%d", chunkSize))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		residues := chromosome.Residues
		for index := 0; index*chunkSize < len(residues); index++ {
			start := index * chunkSize
			end := start + chunkSize
			if end > len(residues) {
				end = len(residues)
			}
			path := filepath.Join(dir, fmt.Sprintf("chunk_%d", index))
			if err := os.WriteFile(path, []byte(residues[start:end]), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	}
	return nil
}
