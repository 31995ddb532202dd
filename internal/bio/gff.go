package bio

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// GFF3Header is the version pragma every GFF3 file starts with.
const GFF3Header = "##gff-version 3"

// WriteGFFGene writes the gene line, one line per transcript, and one
// line per transcript part.
func WriteGFFGene(w io.Writer, source string, gene *domain.GeneDetails) error {
	if gene.Location == nil {
		return nil
	}
	geneName := gene.Uniquename
	attributes := "ID=" + escapeGFFValue(gene.Uniquename)
	if gene.Name != "" {
		attributes += ";Name=" + escapeGFFValue(gene.Name)
	}
	if err := writeGFFLine(w, source, "gene", geneName, *gene.Location, attributes); err != nil {
		return err
	}

	for _, transcript := range gene.Transcripts {
		attrs := fmt.Sprintf("ID=%s;Parent=%s",
			escapeGFFValue(transcript.Uniquename), escapeGFFValue(gene.Uniquename))
		if err := writeGFFLine(w, source, transcript.TranscriptType,
			gene.Uniquename, transcript.Location, attrs); err != nil {
			return err
		}
		for _, part := range transcript.Parts {
			partType := gffPartType(part.FeatureType)
			if partType == "" {
				continue
			}
			partAttrs := "Parent=" + escapeGFFValue(transcript.Uniquename)
			if err := writeGFFLine(w, source, partType, gene.Uniquename,
				part.Location, partAttrs); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteGFFFeature writes one line for a feature without a gene parent
// (repeats, centromere parts and the like).
func WriteGFFFeature(w io.Writer, source string, feature *domain.FeatureShort) error {
	attrs := "ID=" + escapeGFFValue(feature.Uniquename)
	return writeGFFLine(w, source, feature.FeatureType, feature.Uniquename,
		feature.Location, attrs)
}

func gffPartType(featureType string) string {
	switch featureType {
	case domain.FeatureTypeExon:
		return "exon"
	case domain.FeatureTypeFivePrimeUTR:
		return "five_prime_UTR"
	case domain.FeatureTypeThreePrimeUTR:
		return "three_prime_UTR"
	default:
		// introns are implied by the exon gaps
		return ""
	}
}

func writeGFFLine(w io.Writer, source, featureType, name string,
	loc domain.ChromosomeLocation, attributes string) error {
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t.\t%s\t%s\t%s\n",
		loc.ChromosomeName, source, featureType, loc.StartPos, loc.EndPos,
		loc.Strand.GFFString(), loc.Phase.GFFString(), attributes)
	return err
}

// escapeGFFValue percent-encodes the characters reserved in GFF3 column
// nine.
func escapeGFFValue(value string) string {
	escaped := url.QueryEscape(value)
	// QueryEscape encodes spaces as +, GFF3 wants %20
	return strings.ReplaceAll(escaped, "+", "%20")
}
