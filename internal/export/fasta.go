package export

import (
	"github.com/kimrutherford/pombase-chado-json/internal/bio"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// The per-transcript FASTA families.  Each selects a subset of the
// transcript parts in transcription order.
var transcriptFastaFiles = []struct {
	fileName     string
	includeTypes map[string]bool
}{
	{"cds.fa", partTypes(domain.FeatureTypeExon)},
	{"cds+introns.fa", partTypes(domain.FeatureTypeExon, domain.FeatureTypeCdsIntron)},
	{"cds+introns+utrs.fa", partTypes(
		domain.FeatureTypeExon, domain.FeatureTypeCdsIntron,
		domain.FeatureTypeFivePrimeUTR, domain.FeatureTypeThreePrimeUTR)},
	{"introns_within_cds.fa", partTypes(domain.FeatureTypeCdsIntron)},
	{"five_prime_utrs.fa", partTypes(domain.FeatureTypeFivePrimeUTR)},
	{"three_prime_utrs.fa", partTypes(domain.FeatureTypeThreePrimeUTR)},
}

func partTypes(types ...string) map[string]bool {
	included := map[string]bool{}
	for _, partType := range types {
		included[partType] = true
	}
	return included
}

func (w *Writer) writeFasta(web *domain.WebData) error {
	genes := sortedGenes(web)

	for _, family := range transcriptFastaFiles {
		if err := w.writeTranscriptFasta(genes, family.fileName, family.includeTypes); err != nil {
			return err
		}
	}
	if err := w.writePeptideFasta(genes); err != nil {
		return err
	}
	return w.writeChromosomeFasta(web)
}

func (w *Writer) writeTranscriptFasta(genes []*domain.GeneDetails,
	fileName string, includeTypes map[string]bool) error {
	file, err := createFile(w.path("fasta", fileName))
	if err != nil {
		return err
	}
	defer file.Close()

	for _, gene := range genes {
		for _, transcript := range gene.Transcripts {
			var sequence string
			for _, part := range transcript.Parts {
				if includeTypes[part.FeatureType] {
					sequence += part.Residues
				}
			}
			if sequence == "" {
				continue
			}
			if err := bio.WriteFastaRecord(file, transcript.Uniquename, gene.Product, sequence); err != nil {
				return err
			}
		}
	}
	return file.Close()
}

func (w *Writer) writePeptideFasta(genes []*domain.GeneDetails) error {
	file, err := createFile(w.path("fasta", "peptide.fa"))
	if err != nil {
		return err
	}
	defer file.Close()

	for _, gene := range genes {
		for _, transcript := range gene.Transcripts {
			if transcript.Protein == nil {
				continue
			}
			err := bio.WriteFastaRecord(file, transcript.Protein.Uniquename,
				gene.Product, transcript.Protein.Sequence)
			if err != nil {
				return err
			}
		}
	}
	return file.Close()
}

// writeChromosomeFasta writes one FASTA per chromosome plus a combined
// genome file.
func (w *Writer) writeChromosomeFasta(web *domain.WebData) error {
	combined, err := createFile(w.path("fasta", "chromosomes", "genome.fa"))
	if err != nil {
		return err
	}
	defer combined.Close()

	for _, chromosome := range sortedChromosomes(web) {
		fileID := w.chromosomeFileID(chromosome.Name)
		single, err := createFile(w.path("fasta", "chromosomes", fileID+".fa"))
		if err != nil {
			return err
		}
		if err := bio.WriteFastaRecord(single, fileID, "", chromosome.Residues); err != nil {
			single.Close()
			return err
		}
		if err := single.Close(); err != nil {
			return err
		}
		if err := bio.WriteFastaRecord(combined, fileID, "", chromosome.Residues); err != nil {
			return err
		}
	}
	return combined.Close()
}
