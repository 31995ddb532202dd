package export

import (
	"fmt"

	"github.com/kimrutherford/pombase-chado-json/internal/bio"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// writeGFF writes the GFF3 family: the combined file, the per-strand
// partitions and one file per chromosome.
func (w *Writer) writeGFF(web *domain.WebData) error {
	genes := sortedGenes(web)
	source := w.cfg.DatabaseName

	files := map[string][]*domain.GeneDetails{
		"all_chromosomes.gff3": genes,
	}
	for _, gene := range genes {
		if gene.Location == nil {
			continue
		}
		strandFile := strandFileName(gene.Location.Strand)
		files[strandFile] = append(files[strandFile], gene)

		chromosomeFile := w.chromosomeFileID(gene.Location.ChromosomeName) + ".gff3"
		files[chromosomeFile] = append(files[chromosomeFile], gene)
	}

	others := map[string][]domain.FeatureShort{
		"all_chromosomes.gff3": web.OtherFeatures,
	}
	for _, feature := range web.OtherFeatures {
		strandFile := strandFileName(feature.Location.Strand)
		others[strandFile] = append(others[strandFile], feature)

		chromosomeFile := w.chromosomeFileID(feature.Location.ChromosomeName) + ".gff3"
		others[chromosomeFile] = append(others[chromosomeFile], feature)
	}
	for fileName := range others {
		if _, ok := files[fileName]; !ok {
			files[fileName] = nil
		}
	}

	for fileName, fileGenes := range files {
		if err := w.writeGFFFile(fileName, source, fileGenes, others[fileName]); err != nil {
			return err
		}
	}
	return nil
}

func strandFileName(strand domain.Strand) string {
	switch strand {
	case domain.StrandForward:
		return "forward_strand.gff3"
	case domain.StrandReverse:
		return "reverse_strand.gff3"
	default:
		return "unstranded.gff3"
	}
}

func (w *Writer) writeGFFFile(fileName, source string, genes []*domain.GeneDetails,
	others []domain.FeatureShort) error {
	file, err := createFile(w.path("gff", fileName))
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, bio.GFF3Header); err != nil {
		return err
	}
	for _, gene := range genes {
		if gene.Location == nil {
			continue
		}
		if err := bio.WriteGFFGene(file, source, gene); err != nil {
			return err
		}
	}
	for index := range others {
		if err := bio.WriteGFFFeature(file, source, &others[index]); err != nil {
			return err
		}
	}
	return file.Close()
}
