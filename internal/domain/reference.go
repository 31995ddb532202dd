package domain

// ReferenceDetails is the full denormalized record for one publication,
// including curation metadata from Canto and all annotation it supports.
type ReferenceDetails struct {
	Uniquename            string `json:"uniquename"`
	Title                 string `json:"title,omitempty"`
	Citation              string `json:"citation,omitempty"`
	PubmedAbstract        string `json:"pubmed_abstract,omitempty"`
	PubmedDOI             string `json:"pubmed_doi,omitempty"`
	Authors               string `json:"authors,omitempty"`
	AuthorsAbbrev         string `json:"authors_abbrev,omitempty"`
	PubmedPublicationDate string `json:"pubmed_publication_date,omitempty"`
	PublicationYear       string `json:"publication_year,omitempty"`
	PubmedEntrezDate      string `json:"pubmed_entrez_date,omitempty"`

	CantoTriageStatus         string `json:"canto_triage_status,omitempty"`
	CantoCuratorName          string `json:"canto_curator_name,omitempty"`
	CantoCuratorRole          string `json:"canto_curator_role,omitempty"`
	CantoFirstApprovedDate    string `json:"canto_first_approved_date,omitempty"`
	CantoApprovedDate         string `json:"canto_approved_date,omitempty"`
	CantoSessionSubmittedDate string `json:"canto_session_submitted_date,omitempty"`
	CantoAddedDate            string `json:"canto_added_date,omitempty"`
	CantoAnnotationStatus     string `json:"canto_annotation_status,omitempty"`

	// ApprovedDate is the first approved date falling back to the
	// approved date, trimmed to the day.
	ApprovedDate string `json:"approved_date,omitempty"`

	GeneUniquenames     []string `json:"gene_uniquenames,omitempty"`
	GenotypeUniquenames []string `json:"genotype_uniquenames,omitempty"`

	PhysicalInteractions []InteractionAnnotation `json:"physical_interactions,omitempty"`
	GeneticInteractions  []InteractionAnnotation `json:"genetic_interactions,omitempty"`
	OrthologAnnotations  []OrthologAnnotation    `json:"ortholog_annotations,omitempty"`
	ParalogAnnotations   []ParalogAnnotation     `json:"paralog_annotations,omitempty"`

	AnnotationBlock
}

// Short projects the reference to its minimal form.
func (r *ReferenceDetails) Short() ReferenceShort {
	return ReferenceShort{
		Uniquename:      r.Uniquename,
		Title:           r.Title,
		Citation:        r.Citation,
		AuthorsAbbrev:   r.AuthorsAbbrev,
		PublicationYear: r.PublicationYear,
		ApprovedDate:    r.ApprovedDate,
		GeneCount:       len(r.GeneUniquenames),
		GenotypeCount:   len(r.GenotypeUniquenames),
	}
}

// RecentReferences lists the most recently curated publications split by
// curation route.
type RecentReferences struct {
	// Pubmed publication date order.
	Pubmed []ReferenceShort `json:"pubmed"`
	// Admin curated, most recently approved first.
	AdminCurated []ReferenceShort `json:"admin_curated"`
	// Community curated, most recently approved first.
	CommunityCurated []ReferenceShort `json:"community_curated"`
}
