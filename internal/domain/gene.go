package domain

// DeletionViability classifies the phenotype of deleting a gene.
type DeletionViability string

const (
	ViabilityViable              DeletionViability = "viable"
	ViabilityInviable            DeletionViability = "inviable"
	ViabilityDependsOnConditions DeletionViability = "depends_on_conditions"
	ViabilityUnknown             DeletionViability = "unknown"
)

// PresentAbsent is a three-valued presence flag (plus "unknown").
type PresentAbsent string

const (
	Present       PresentAbsent = "present"
	Absent        PresentAbsent = "absent"
	NotApplicable PresentAbsent = "not_applicable"
	Unknown       PresentAbsent = "unknown"
)

// InterProMatch is a pre-parsed protein domain match keyed by gene.
type InterProMatch struct {
	ID         string          `json:"id"`
	DBName     string          `json:"dbname"`
	Name       string          `json:"name,omitempty"`
	Evidence   string          `json:"evidence,omitempty"`
	InterProID string          `json:"interpro_id,omitempty"`
	Locations  []MatchLocation `json:"locations"`
}

// PfamMotif is a pre-parsed Pfam motif call keyed by gene.
type PfamMotif struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	Locations []MatchLocation `json:"locations"`
}

// RfamAnnotation is a pre-parsed ncRNA family match keyed by gene.
type RfamAnnotation struct {
	RfamID   string `json:"rfam_id"`
	RfamName string `json:"rfam_name,omitempty"`
}

type MatchLocation struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// GeneDetails is the full denormalized record for one gene.
type GeneDetails struct {
	Uniquename             string                  `json:"uniquename"`
	Name                   string                  `json:"name,omitempty"`
	TaxonID                int                     `json:"taxonid"`
	Product                string                  `json:"product,omitempty"`
	DeletionViability      DeletionViability       `json:"deletion_viability"`
	UniprotIdentifier      string                  `json:"uniprot_identifier,omitempty"`
	OrfeomeIdentifier      string                  `json:"orfeome_identifier,omitempty"`
	InterProMatches        []InterProMatch         `json:"interpro_matches"`
	PfamData               []PfamMotif             `json:"pfam_data,omitempty"`
	TMDomainCoords         []MatchLocation         `json:"tm_domain_coords"`
	RfamAnnotations        []RfamAnnotation        `json:"rfam_annotations,omitempty"`
	NameDescriptions       []string                `json:"name_descriptions,omitempty"`
	Synonyms               []SynonymDetails        `json:"synonyms"`
	Dbxrefs                []string                `json:"dbxrefs,omitempty"`
	FeatureType            string                  `json:"feature_type"`
	TranscriptSoTermID     string                  `json:"transcript_so_termid,omitempty"`
	CharacterisationStatus string                  `json:"characterisation_status,omitempty"`
	TaxonomicDistribution  string                  `json:"taxonomic_distribution,omitempty"`
	Location               *ChromosomeLocation     `json:"location,omitempty"`
	GeneNeighbourhood      []GeneShort             `json:"gene_neighbourhood"`
	Transcripts            []TranscriptDetails     `json:"transcripts,omitempty"`
	PhysicalInteractions   []InteractionAnnotation `json:"physical_interactions,omitempty"`
	GeneticInteractions    []InteractionAnnotation `json:"genetic_interactions,omitempty"`
	OrthologAnnotations    []OrthologAnnotation    `json:"ortholog_annotations,omitempty"`
	ParalogAnnotations     []ParalogAnnotation     `json:"paralog_annotations,omitempty"`
	TargetOfAnnotations    []TargetOfAnnotation    `json:"target_of_annotations,omitempty"`
	FeaturePublications    []string                `json:"feature_publications,omitempty"`
	SubsetTermIDs          []string                `json:"subset_termids,omitempty"`
	AnnotationBlock
}

// Short projects the gene to its minimal form.
func (g *GeneDetails) Short() GeneShort {
	return GeneShort{Uniquename: g.Uniquename, Name: g.Name, Product: g.Product}
}

// SplicedTranscriptSequence concatenates the exon residues of the first
// transcript, or returns "" for a gene without transcripts.
func (g *GeneDetails) SplicedTranscriptSequence() string {
	if len(g.Transcripts) == 0 {
		return ""
	}
	return g.Transcripts[0].SplicedSequence()
}

// Protein returns the translated protein of the first transcript, if any.
func (g *GeneDetails) Protein() *ProteinDetails {
	if len(g.Transcripts) == 0 {
		return nil
	}
	return g.Transcripts[0].Protein
}

// ExonCount counts exons over the first transcript.
func (g *GeneDetails) ExonCount() int {
	if len(g.Transcripts) == 0 {
		return 0
	}
	return g.Transcripts[0].ExonCount()
}
