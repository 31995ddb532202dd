package export

import (
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// writeAnnotationSubsets writes one TSV per configured annotation subset.
// A subset names the terms to pull annotations from (the term blocks
// already hold propagated descendant annotations) and the columns to
// render.  Identical rendered rows collapse to one.
func (w *Writer) writeAnnotationSubsets(web *domain.WebData) error {
	for _, subset := range w.cfg.FileExports.AnnotationSubsets {
		if err := w.writeAnnotationSubset(web, subset); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeAnnotationSubset(web *domain.WebData, subset config.AnnotationSubsetConfig) error {
	header := make([]string, 0, len(subset.Columns))
	for _, column := range subset.Columns {
		header = append(header, column.Name)
	}

	var rows [][]string
	for _, termID := range subset.TermIDs {
		term, ok := web.Terms[termID]
		if !ok {
			continue
		}
		for _, detailID := range sortedDetailIDs(term.AnnotationDetails) {
			detail := term.AnnotationDetails[detailID]
			if !subsetAlleleScopeMatches(subset.SingleOrMultiAllele, detail, web) {
				continue
			}
			row := make([]string, 0, len(subset.Columns))
			for _, column := range subset.Columns {
				row = append(row, renderSubsetColumn(column.Name, term, detail, web))
			}
			rows = append(rows, row)
		}
	}
	path := w.path("misc", subset.FileName)
	return writeTSV(path, header, dedupRows(rows))
}

// subsetAlleleScopeMatches applies the optional single/multi allele scope
// to genotype annotations.  Gene annotations always pass an empty scope
// and never pass a genotype-specific one.
func subsetAlleleScopeMatches(scope string, detail *domain.OntAnnotationDetail, web *domain.WebData) bool {
	if scope == "" || scope == "both" {
		return true
	}
	if detail.Genotype == "" {
		return false
	}
	genotype, ok := web.Genotypes[detail.Genotype]
	if !ok {
		return false
	}
	if scope == "single" {
		return len(genotype.ExpressedAlleles) == 1
	}
	return len(genotype.ExpressedAlleles) > 1
}

func renderSubsetColumn(name string, term *domain.TermDetails,
	detail *domain.OntAnnotationDetail, web *domain.WebData) string {
	switch name {
	case "gene_uniquename":
		return strings.Join(annotationGenes(detail, web), ",")
	case "gene_name":
		var names []string
		for _, geneUniquename := range annotationGenes(detail, web) {
			if gene, ok := web.Genes[geneUniquename]; ok && gene != nil {
				names = append(names, gene.Name)
			}
		}
		return strings.Join(names, ",")
	case "termid":
		return term.TermID
	case "term_name":
		return term.Name
	case "evidence":
		return detail.Evidence
	case "eco_evidence":
		return detail.EcoEvidence
	case "reference":
		return detail.Reference
	case "genotype":
		return detail.Genotype
	case "conditions":
		return strings.Join(detail.Conditions, ",")
	case "qualifiers":
		return strings.Join(detail.Qualifiers, ",")
	case "extension":
		return renderExtension(detail.Extension)
	case "assigned_by":
		return detail.AssignedBy
	case "throughput":
		return string(detail.Throughput)
	default:
		return ""
	}
}

// annotationGenes resolves the genes of an annotation, going through the
// genotype's expressed alleles for genotype annotations.
func annotationGenes(detail *domain.OntAnnotationDetail, web *domain.WebData) []string {
	if len(detail.Genes) > 0 {
		return detail.Genes
	}
	if detail.Genotype == "" {
		return nil
	}
	genotype, ok := web.Genotypes[detail.Genotype]
	if !ok {
		return nil
	}
	var genes []string
	seen := map[string]bool{}
	for _, expressed := range genotype.ExpressedAlleles {
		allele, ok := web.Alleles[expressed.AlleleUniquename]
		if !ok {
			continue
		}
		geneUniquename := allele.Gene.Uniquename
		if geneUniquename != "" && !seen[geneUniquename] {
			seen[geneUniquename] = true
			genes = append(genes, geneUniquename)
		}
	}
	return genes
}

func renderExtension(parts []domain.ExtPart) string {
	var rendered []string
	for _, part := range parts {
		rendered = append(rendered, part.RelTypeName+"("+part.ExtRange.DisplayValue()+")")
	}
	return strings.Join(rendered, ",")
}
