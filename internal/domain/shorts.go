package domain

import "sort"

// GeneShort is the minimal gene record embedded in other objects.
type GeneShort struct {
	Uniquename string `json:"uniquename"`
	Name       string `json:"name,omitempty"`
	Product    string `json:"product,omitempty"`
}

func (g GeneShort) DisplayName() string {
	if g.Name != "" {
		return g.Name + " (" + g.Uniquename + ")"
	}
	return g.Uniquename
}

// GeneShortLess orders genes with named genes first, then by name, then by
// uniquename.  The ordering is total so sorted output is reproducible.
func GeneShortLess(a, b GeneShort) bool {
	if a.Name != "" {
		if b.Name == "" {
			return true
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Uniquename < b.Uniquename
	}
	if b.Name != "" {
		return false
	}
	return a.Uniquename < b.Uniquename
}

func SortGeneShorts(genes []GeneShort) {
	sort.SliceStable(genes, func(i, j int) bool {
		return GeneShortLess(genes[i], genes[j])
	})
}

// TermXref is a cross-reference from a term to an external database.
type TermXref struct {
	XrefID          string `json:"xref_id"`
	XrefDisplayName string `json:"xref_display_name,omitempty"`
}

// TermShort is the minimal term record embedded in other objects.
type TermShort struct {
	Name               string              `json:"name"`
	CvName             string              `json:"cv_name"`
	InterestingParents []string            `json:"interesting_parents,omitempty"`
	TermID             string              `json:"termid"`
	IsObsolete         bool                `json:"is_obsolete"`
	GeneCount          int                 `json:"gene_count"`
	GenotypeCount      int                 `json:"genotype_count"`
	Xrefs              map[string]TermXref `json:"xrefs,omitempty"`
}

// TermShortLess orders terms by name, ties broken by term id.
func TermShortLess(a, b TermShort) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.TermID < b.TermID
}

// ReferenceShort is the minimal publication record embedded in other
// objects.
type ReferenceShort struct {
	Uniquename      string `json:"uniquename"`
	Title           string `json:"title,omitempty"`
	Citation        string `json:"citation,omitempty"`
	AuthorsAbbrev   string `json:"authors_abbrev,omitempty"`
	PublicationYear string `json:"publication_year,omitempty"`
	ApprovedDate    string `json:"approved_date,omitempty"`
	GeneCount       int    `json:"gene_count"`
	GenotypeCount   int    `json:"genotype_count"`
}

// AlleleShort is an allele of one gene.
type AlleleShort struct {
	Uniquename     string `json:"uniquename"`
	Name           string `json:"name,omitempty"`
	AlleleType     string `json:"allele_type"`
	Description    string `json:"description,omitempty"`
	GeneUniquename string `json:"gene_uniquename"`
}

// ExpressedAllele is an allele together with its expression level in a
// genotype.
type ExpressedAllele struct {
	Expression       string `json:"expression,omitempty"`
	AlleleUniquename string `json:"allele_uniquename"`
}

// GenotypeShort is the minimal genotype record embedded in other objects.
type GenotypeShort struct {
	DisplayUniquename string            `json:"display_uniquename"`
	Name              string            `json:"name,omitempty"`
	ExpressedAlleles  []ExpressedAllele `json:"expressed_alleles"`
}

func (g GenotypeShort) IsMultiAllele() bool {
	return len(g.ExpressedAlleles) > 1
}

// SynonymDetails is a name synonym with its type ("exact", "broad", ...).
type SynonymDetails struct {
	Name        string `json:"name"`
	SynonymType string `json:"type"`
}

// IdAndOrganism pairs an external gene identifier with its organism.
type IdAndOrganism struct {
	Identifier string `json:"identifier"`
	TaxonID    int    `json:"taxonid"`
}

type IdNameAndOrganism struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name,omitempty"`
	TaxonID    int    `json:"taxonid"`
}
