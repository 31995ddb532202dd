package query

import (
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

const (
	SeqTypeProtein    = "protein"
	SeqTypeNucleotide = "nucleotide"
	SeqTypeNone       = "none"
)

// makeRows shapes the matched gene set into result rows, filling only the
// requested fields.  Field names not in the known set are ignored rather
// than rejected so older clients keep working.
func makeRows(geneIDs []string, opts QueryOutputOptions, maps *domain.APIMaps) []ResultRow {
	rows := make([]ResultRow, 0, len(geneIDs))
	for _, geneUniquename := range geneIDs {
		row := ResultRow{GeneUniquename: geneUniquename}
		summary := maps.GeneSummaries[geneUniquename]
		data := maps.GeneQueryData[geneUniquename]
		for _, field := range opts.FieldNames {
			fillField(&row, field, summary, data)
		}
		if opts.Sequence != nil && opts.Sequence.Kind != SeqTypeNone && opts.Sequence.Kind != "" {
			row.Sequence = geneSequence(maps.Genes[geneUniquename], opts.Sequence)
		}
		rows = append(rows, row)
	}
	return rows
}

func fillField(row *ResultRow, field string, summary *domain.APIGeneSummary, data *domain.GeneQueryData) {
	switch field {
	case "gene_uniquename":
		// always present
	case "name":
		if summary != nil {
			row.Name = summary.Name
		}
	case "product":
		if summary != nil {
			row.Product = summary.Product
		}
	case "uniprot_identifier":
		if summary != nil {
			row.UniprotID = summary.UniprotIdentifier
		}
	case "exon_count":
		if data != nil {
			row.ExonCount = data.ExonCount
		}
	case "tm_domain_count":
		if data != nil {
			row.TMDomainCount = data.TMDomainCount
		}
	case "protein_length":
		if data != nil {
			row.ProteinLength = data.ProteinLength
		}
	case "molecular_weight":
		if data != nil {
			row.MolecularWeight = data.ProteinMolWeight
		}
	case "ortholog":
		if summary != nil {
			for _, orth := range summary.OrthologIDs {
				row.Orthologs = append(row.Orthologs, orth.Identifier)
			}
		}
	}
}

// geneSequence assembles the requested sequence from the first transcript
// of the gene.  Genes without transcripts, or without a protein when one
// is asked for, get an empty sequence.
func geneSequence(gene *domain.GeneDetails, seqType *SeqType) string {
	if gene == nil || len(gene.Transcripts) == 0 {
		return ""
	}
	if seqType.Kind == SeqTypeProtein {
		if protein := gene.Protein(); protein != nil {
			return protein.Sequence
		}
		return ""
	}
	transcript := &gene.Transcripts[0]
	var builder strings.Builder
	for _, part := range transcript.Parts {
		if includePart(part.FeatureType, seqType) {
			builder.WriteString(part.Residues)
		}
	}
	return builder.String()
}

func includePart(featureType string, seqType *SeqType) bool {
	switch featureType {
	case domain.FeatureTypeExon:
		return true
	case domain.FeatureTypeCdsIntron:
		return seqType.IncludeIntrons
	case domain.FeatureTypeFivePrimeUTR:
		return seqType.Include5PrimeUTR
	case domain.FeatureTypeThreePrimeUTR:
		return seqType.Include3PrimeUTR
	default:
		return false
	}
}
