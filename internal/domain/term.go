package domain

// TermAndRelation is a direct ancestor edge in the ontology.
type TermAndRelation struct {
	TermID       string `json:"termid"`
	TermName     string `json:"term_name"`
	RelationName string `json:"relation_name"`
}

// TermDetails is the full denormalized record for one ontology term,
// including the annotations of the term and of its configured descendants.
type TermDetails struct {
	Name                  string              `json:"name"`
	CvName                string              `json:"cv_name"`
	AnnotationFeatureType string              `json:"annotation_feature_type"`
	InterestingParents    []string            `json:"interesting_parents,omitempty"`
	InSubsets             []string            `json:"in_subsets,omitempty"`
	TermID                string              `json:"termid"`
	Synonyms              []SynonymDetails    `json:"synonyms,omitempty"`
	Definition            string              `json:"definition,omitempty"`
	DirectAncestors       []TermAndRelation   `json:"direct_ancestors,omitempty"`
	GenesAnnotatedWith    []string            `json:"genes_annotated_with,omitempty"`
	IsObsolete            bool                `json:"is_obsolete"`
	SingleAlleleGenotypes []string            `json:"single_allele_genotype_uniquenames,omitempty"`
	GeneCount             int                 `json:"gene_count"`
	GenotypeCount         int                 `json:"genotype_count"`
	Xrefs                 map[string]TermXref `json:"xrefs,omitempty"`
	AnnotationBlock
}

// Short projects the term to its minimal form.
func (t *TermDetails) Short() TermShort {
	return TermShort{
		Name:               t.Name,
		CvName:             t.CvName,
		InterestingParents: t.InterestingParents,
		TermID:             t.TermID,
		IsObsolete:         t.IsObsolete,
		GeneCount:          t.GeneCount,
		GenotypeCount:      t.GenotypeCount,
		Xrefs:              t.Xrefs,
	}
}
