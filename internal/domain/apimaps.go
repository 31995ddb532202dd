package domain

// GeneQueryTermData is one annotated term of a gene, kept in the query
// index so term-based queries run without touching the full gene record.
type GeneQueryTermData struct {
	TermID           string   `json:"termid"`
	IsNot            bool     `json:"is_not"`
	SingleAllele     bool     `json:"single_allele"`
	MultiAllele      bool     `json:"multi_allele"`
	ExpressionLevels []string `json:"expression_levels,omitempty"`
}

// GeneQueryData holds the per-gene fields the query engine matches
// against.
type GeneQueryData struct {
	GeneUniquename    string              `json:"gene_uniquename"`
	DeletionViability DeletionViability   `json:"deletion_viability"`
	OntAnnotations    []GeneQueryTermData `json:"ont_annotations,omitempty"`
	SubsetTermIDs     []string            `json:"subset_termids,omitempty"`
	Location          *ChromosomeLocation `json:"location,omitempty"`
	TMDomainCount     int                 `json:"tm_domain_count"`
	ExonCount         int                 `json:"exon_count"`
	ProteinLength     int                 `json:"protein_length"`
	ProteinMolWeight  float64             `json:"protein_mol_weight"`
}

// APIGeneSummary is the per-gene summary used by the query API and the
// autocomplete index.
type APIGeneSummary struct {
	Uniquename        string              `json:"uniquename"`
	Name              string              `json:"name,omitempty"`
	Product           string              `json:"product,omitempty"`
	UniprotIdentifier string              `json:"uniprot_identifier,omitempty"`
	Synonyms          []string            `json:"synonyms,omitempty"`
	OrthologIDs       []IdNameAndOrganism `json:"orthologs,omitempty"`
	Location          *ChromosomeLocation `json:"location,omitempty"`
	FeatureType       string              `json:"feature_type"`
	TMDomainCount     int                 `json:"tm_domain_count"`
	ExonCount         int                 `json:"exon_count"`
	TranscriptCount   int                 `json:"transcript_count"`
}

// APIAlleleDetails is the allele record kept in the API maps.
type APIAlleleDetails struct {
	Allele    AlleleShort `json:"allele"`
	Genotypes []string    `json:"genotypes,omitempty"`
}

// APIGenotypeAnnotation is one term annotation of a genotype, reduced to
// what the query engine needs.
type APIGenotypeAnnotation struct {
	IsMultiAllele bool     `json:"is_multi_allele"`
	Conditions    []string `json:"conditions,omitempty"`
}

// InteractionType distinguishes the two BioGRID interaction classes.
type InteractionType string

const (
	InteractionPhysical InteractionType = "physical"
	InteractionGenetic  InteractionType = "genetic"
)

// APIInteractor is one interaction partner of a gene.
type APIInteractor struct {
	InteractionType InteractionType `json:"interaction_type"`
	Interactor      string          `json:"interactor_uniquename"`
}

// APIMaps is the server-side dataset: everything the query engine and
// the detail endpoints need, keyed for direct lookup.
type APIMaps struct {
	GeneSummaries       map[string]*APIGeneSummary         `json:"gene_summaries"`
	GeneQueryData       map[string]*GeneQueryData          `json:"gene_query_data"`
	TermidsByGene       map[string][]string                `json:"termids_by_gene,omitempty"`
	GenesByTermID       map[string][]string                `json:"genes_by_termid,omitempty"`
	GeneSummariesByName map[string]string                  `json:"gene_name_map,omitempty"`
	Interactors         map[string][]APIInteractor         `json:"interactors_of_genes,omitempty"`
	Genes               map[string]*GeneDetails            `json:"genes"`
	Terms               map[string]*TermDetails            `json:"terms"`
	References          map[string]*ReferenceDetails       `json:"references"`
	Genotypes           map[string]*GenotypeDetails        `json:"genotypes"`
	Alleles             map[string]*APIAlleleDetails       `json:"alleles"`
	GenotypeAnnotations map[string][]APIGenotypeAnnotation `json:"genotype_annotation,omitempty"`
	ChromosomeDetails   map[string]*ChromosomeDetails      `json:"chromosomes"`
	TermSubsets         map[string]*TermSubsetDetails      `json:"term_subsets"`
	GeneSubsets         map[string]*GeneSubsetDetails      `json:"gene_subsets"`
}

// GeneSummary is the per-gene row of the exported gene_summaries.json,
// consumed by external tools.
type GeneSummary struct {
	Uniquename        string `json:"gene_systematic_id"`
	Name              string `json:"gene_name,omitempty"`
	Product           string `json:"gene_product,omitempty"`
	UniprotIdentifier string `json:"uniprot_identifier,omitempty"`
	Synonyms          string `json:"synonyms,omitempty"`
	FeatureType       string `json:"gene_type"`
	Chromosome        string `json:"chromosome_id,omitempty"`
	StartPos          int    `json:"start_pos,omitempty"`
	EndPos            int    `json:"end_pos,omitempty"`
	Strand            Strand `json:"strand,omitempty"`
	TaxonID           int    `json:"taxonid"`
}

// SolrTermSummary is the per-term document pushed to the search index.
type SolrTermSummary struct {
	ID                  string   `json:"id"`
	CvName              string   `json:"cv_name"`
	Name                string   `json:"name"`
	CloseSynonyms       []string `json:"close_synonyms,omitempty"`
	CloseSynonymWords   string   `json:"close_synonym_words,omitempty"`
	DistantSynonyms     []string `json:"distant_synonyms,omitempty"`
	DistantSynonymWords string   `json:"distant_synonym_words,omitempty"`
	InterestingParents  []string `json:"interesting_parents,omitempty"`
	Definition          string   `json:"definition,omitempty"`
	GeneCount           int      `json:"gene_count"`
	GenotypeCount       int      `json:"genotype_count"`
	TermID              string   `json:"termid"`
}

// SolrGeneSummary is the per-gene document pushed to the search index.
type SolrGeneSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name,omitempty"`
	TaxonID      int      `json:"taxonid"`
	Product      string   `json:"product,omitempty"`
	UniprotID    string   `json:"uniprot_identifier,omitempty"`
	Synonyms     []string `json:"synonyms,omitempty"`
	SynonymWords string   `json:"synonym_words,omitempty"`
	FeatureType  string   `json:"feature_type"`
}

// SolrReferenceSummary is the per-publication document pushed to the
// search index.
type SolrReferenceSummary struct {
	ID                    string `json:"id"`
	Title                 string `json:"title,omitempty"`
	Citation              string `json:"citation,omitempty"`
	PubmedAbstract        string `json:"pubmed_abstract,omitempty"`
	Authors               string `json:"authors,omitempty"`
	AuthorsAbbrev         string `json:"authors_abbrev,omitempty"`
	PubmedPublicationDate string `json:"pubmed_publication_date,omitempty"`
	PublicationYear       string `json:"publication_year,omitempty"`
	GeneCount             int    `json:"gene_count"`
	GenotypeCount         int    `json:"genotype_count"`
}

// SolrData bundles the documents destined for the search index.
type SolrData struct {
	TermSummaries      []SolrTermSummary      `json:"term_summaries"`
	GeneSummaries      []SolrGeneSummary      `json:"gene_summaries"`
	ReferenceSummaries []SolrReferenceSummary `json:"reference_summaries"`
}

// Metadata describes one export run.
type Metadata struct {
	DBCreationDatetime string            `json:"db_creation_datetime"`
	ExportProgName     string            `json:"export_prog_name"`
	ExportProgVersion  string            `json:"export_prog_version"`
	GeneCount          int               `json:"gene_count"`
	TermCount          int               `json:"term_count"`
	CvVersions         map[string]string `json:"cv_versions,omitempty"`
}

// StatCountsByTaxon holds per-organism counts for the stats export.
type StatCountsByTaxon struct {
	Genes       int `json:"genes"`
	Annotations int `json:"annotations"`
}

// Stats is the dataset-level statistics export.
type Stats struct {
	ByTaxon map[int]StatCountsByTaxon `json:"by_taxon"`
}

// TermSubsetElement is one term of a subset with its annotated gene
// count.
type TermSubsetElement struct {
	Name      string `json:"name"`
	TermID    string `json:"termid"`
	GeneCount int    `json:"gene_count"`
}

// TermSubsetDetails is a named ontology subset (a slim).
type TermSubsetDetails struct {
	Name           string              `json:"name"`
	TotalGeneCount int                 `json:"total_gene_count"`
	Elements       []TermSubsetElement `json:"elements"`
}

// GeneSubsetDetails is a named gene set, eg. all genes with an InterPro
// domain match.
type GeneSubsetDetails struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Elements    []string `json:"elements"`
}

// WebData is the complete output of a build: every denormalized record
// plus the API maps derived from them.
type WebData struct {
	Genes         map[string]*GeneDetails       `json:"genes"`
	Terms         map[string]*TermDetails       `json:"terms"`
	References    map[string]*ReferenceDetails  `json:"references"`
	Genotypes     map[string]*GenotypeDetails   `json:"genotypes"`
	Alleles       map[string]*AlleleDetails     `json:"alleles"`
	Chromosomes   map[string]*ChromosomeDetails `json:"chromosomes"`
	OtherFeatures []FeatureShort                `json:"other_features,omitempty"`
	GeneSummaries []GeneSummary                 `json:"gene_summaries"`
	SolrData      SolrData                      `json:"solr_data"`
	RecentRefs    RecentReferences              `json:"recent_references"`
	Metadata      Metadata                      `json:"metadata"`
	Stats         Stats                         `json:"stats"`
	APIMaps       APIMaps                       `json:"api_maps"`
}
