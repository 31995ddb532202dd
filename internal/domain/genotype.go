package domain

// GenotypeDetails is the full denormalized record for one genotype.
type GenotypeDetails struct {
	DisplayUniquename string            `json:"display_uniquename"`
	DisplayName       string            `json:"display_name,omitempty"`
	Name              string            `json:"name,omitempty"`
	Background        string            `json:"background,omitempty"`
	ExpressedAlleles  []ExpressedAllele `json:"expressed_alleles"`
	AnnotationBlock
}

// Short projects the genotype to its minimal form.
func (g *GenotypeDetails) Short() GenotypeShort {
	return GenotypeShort{
		DisplayUniquename: g.DisplayUniquename,
		Name:              g.Name,
		ExpressedAlleles:  g.ExpressedAlleles,
	}
}

// IsMultiAllele reports whether the genotype carries more than one allele.
func (g *GenotypeDetails) IsMultiAllele() bool {
	return len(g.ExpressedAlleles) > 1
}

// AlleleDetails is the full record for one allele of a gene.
type AlleleDetails struct {
	Uniquename  string    `json:"uniquename"`
	Name        string    `json:"name,omitempty"`
	AlleleType  string    `json:"allele_type"`
	Description string    `json:"description,omitempty"`
	Gene        GeneShort `json:"gene"`
}

// Short projects the allele to its minimal form.
func (a *AlleleDetails) Short() AlleleShort {
	return AlleleShort{
		Uniquename:     a.Uniquename,
		Name:           a.Name,
		AlleleType:     a.AlleleType,
		Description:    a.Description,
		GeneUniquename: a.Gene.Uniquename,
	}
}
