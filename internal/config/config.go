package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Relation names followed when propagating annotation from a term to its
// ancestors.
var DescendantRelNames = []string{
	"is_a", "part_of", "regulates", "positively_regulates",
	"negatively_regulates", "has_part", "output_of",
}

// CVs for which the has_part relation is followed during propagation.
var HasPartCvNames = []string{"fission_yeast_phenotype"}

// GeneNeighbourhoodDistance is the number of genes collected on each side
// of a gene for its neighbourhood list.
const GeneNeighbourhoodDistance = 5

// Feature types treated as transcripts of a gene.
var TranscriptFeatureTypes = []string{
	"mRNA", "pseudogenic_transcript", "rRNA", "snoRNA", "snRNA",
	"tRNA", "ncRNA", "lncRNA", "sncRNA",
}

// Feature types that form the ordered parts of a transcript.
var TranscriptPartTypes = []string{
	"exon", "pseudogenic_exon", "five_prime_UTR", "three_prime_UTR",
}

// FeatureRelAnnotationType classifies feature-relationship rows into the
// annotation lists they feed.
type FeatureRelAnnotationType int

const (
	FeatureRelInteraction FeatureRelAnnotationType = iota
	FeatureRelOrtholog
	FeatureRelParalog
)

type FeatureRelConfig struct {
	RelTypeName    string
	AnnotationType FeatureRelAnnotationType
}

// FeatureRelConfigs lists the feature-relationship types loaded as
// interaction, ortholog and paralog annotation.
var FeatureRelConfigs = []FeatureRelConfig{
	{RelTypeName: "interacts_physically", AnnotationType: FeatureRelInteraction},
	{RelTypeName: "interacts_genetically", AnnotationType: FeatureRelInteraction},
	{RelTypeName: "orthologous_to", AnnotationType: FeatureRelOrtholog},
	{RelTypeName: "paralogous_to", AnnotationType: FeatureRelParalog},
}

// TermAndName pairs a term id with its display name.
type TermAndName struct {
	TermID string `json:"termid" validate:"required"`
	Name   string `json:"name"`
}

// EvidenceDetails expands an evidence code abbreviation.
type EvidenceDetails struct {
	Long string `json:"long" validate:"required"`
	Link string `json:"link,omitempty"`
}

// ExtensionDisplayName maps an extension relation name to the text shown
// for it, optionally scoped to annotations under one ancestor term.
type ExtensionDisplayName struct {
	RelName        string `json:"rel_name" validate:"required"`
	Display        string `json:"display_name" validate:"required"`
	IfDescendantOf string `json:"if_descendant_of,omitempty"`
}

// ExtensionRelationOrder fixes the order of extension parts in summary
// rows.  Relations in AlwaysLast sort after everything else.
type ExtensionRelationOrder struct {
	RelationOrder []string `json:"relation_order"`
	AlwaysLast    []string `json:"always_last"`
}

// InterestingParent marks one (termid, relation) ancestor pair that is
// kept in term short forms.
type InterestingParent struct {
	TermID  string `json:"termid" validate:"required"`
	RelName string `json:"rel_name" validate:"required"`
}

// CvConfig is the curation policy for one ontology namespace.
type CvConfig struct {
	FeatureType                    string        `json:"feature_type" validate:"required"`
	DisplayName                    string        `json:"display_name,omitempty"`
	SingleOrMultiAllele            string        `json:"single_or_multi_allele,omitempty"`
	FilterDisplayName              string        `json:"filter_display_name,omitempty"`
	SplitByParents                 []TermAndName `json:"split_by_parents,omitempty"`
	SummaryRelationsToHide         []string      `json:"summary_relations_to_hide,omitempty"`
	SummaryRelationRangesToCollect []string      `json:"summary_relation_ranges_to_collect,omitempty"`
	SortDetailsBy                  []string      `json:"sort_details_by,omitempty"`
}

// Organism is one organism of the database.
type Organism struct {
	TaxonID int    `json:"taxonid" validate:"required"`
	Genus   string `json:"genus" validate:"required"`
	Species string `json:"species" validate:"required"`
}

func (o Organism) FullName() string {
	return o.Genus + " " + o.Species
}

// ChromosomeConfig names one chromosome and its export identifiers.
type ChromosomeConfig struct {
	Name             string `json:"name" validate:"required"`
	ExportID         string `json:"export_id,omitempty"`
	ExportFileID     string `json:"export_file_id,omitempty"`
	ShortDisplayName string `json:"short_display_name,omitempty"`
	LongDisplayName  string `json:"long_display_name,omitempty"`
}

// ServerConfig holds the query server's search-collaborator settings.
type ServerConfig struct {
	SolrURL               string   `json:"solr_url,omitempty"`
	CloseSynonymBoost     float64  `json:"close_synonym_boost,omitempty"`
	DistantSynonymBoost   float64  `json:"distant_synonym_boost,omitempty"`
	SubsetPrefixesToStrip []string `json:"subset_prefixes_to_strip,omitempty"`
}

// SlimConfig is one named term subset (a slim).
type SlimConfig struct {
	SlimDisplayName string        `json:"slim_display_name,omitempty"`
	CvName          string        `json:"cv_name" validate:"required"`
	Terms           []TermAndName `json:"terms" validate:"required,dive"`
}

// ViabilityTerms names the phenotype terms used to classify deletion
// viability.
type ViabilityTerms struct {
	Viable   string `json:"viable"`
	Inviable string `json:"inviable"`
}

// QueryDataConfig configures the precomputed per-gene query index.
type QueryDataConfig struct {
	OrthologPresenceTaxonIDs []int `json:"ortholog_presence_taxonids,omitempty"`
}

// MacromolecularComplexesConfig scopes the Complex_annotation export.
type MacromolecularComplexesConfig struct {
	ParentComplexTermID string   `json:"parent_complex_termid" validate:"required"`
	ExcludedTermIDs     []string `json:"excluded_termids,omitempty"`
}

// AnnotationSubsetColumn is one output column of an annotation-subset
// table export.
type AnnotationSubsetColumn struct {
	Name string `json:"name" validate:"required"`
}

// AnnotationSubsetConfig is one annotation-subset TSV table export.
type AnnotationSubsetConfig struct {
	TermIDs             []string                 `json:"term_ids" validate:"required"`
	FileName            string                   `json:"file_name" validate:"required"`
	Columns             []AnnotationSubsetColumn `json:"columns" validate:"required,dive"`
	SingleOrMultiAllele string                   `json:"single_or_multi_allele,omitempty"`
}

// FileExportConfig configures the optional file export families.
type FileExportConfig struct {
	SiteMapTermPrefixes     []string                       `json:"site_map_term_prefixes,omitempty"`
	MacromolecularComplexes *MacromolecularComplexesConfig `json:"macromolecular_complexes,omitempty"`
	RNAcentral              bool                           `json:"rnacentral,omitempty"`
	AnnotationSubsets       []AnnotationSubsetConfig       `json:"annotation_subsets,omitempty"`
	NucleotideChunkSizes    []int                          `json:"nt_seq_chunk_sizes,omitempty"`
	ProteinChunkSizes       []int                          `json:"protein_seq_chunk_sizes,omitempty"`
}

// Config is the curation-policy configuration document.
type Config struct {
	DatabaseName           string                     `json:"database_name" validate:"required"`
	DatabaseLongName       string                     `json:"database_long_name,omitempty"`
	LoadOrganismTaxonID    int                        `json:"load_organism_taxonid" validate:"required"`
	Organisms              []Organism                 `json:"organisms" validate:"required,dive"`
	CvConfig               map[string]*CvConfig       `json:"cv_config"`
	ExtensionDisplayNames  []ExtensionDisplayName     `json:"extension_display_names,omitempty"`
	ExtensionRelationOrder ExtensionRelationOrder     `json:"extension_relation_order"`
	EvidenceTypes          map[string]EvidenceDetails `json:"evidence_types,omitempty"`
	InterestingParents     []InterestingParent        `json:"interesting_parents,omitempty"`
	Chromosomes            []ChromosomeConfig         `json:"chromosomes,omitempty"`
	ViabilityTerms         ViabilityTerms             `json:"viability_terms"`
	GoSlimTerms            []TermAndName              `json:"go_slim_terms,omitempty"`
	Slims                  map[string]*SlimConfig     `json:"slims,omitempty"`
	// InterPro member databases whose matches are dropped on load, and
	// the lowercased database alias -> display name map
	InterProDBNamesToFilter []string          `json:"interpro_dbnames_to_filter,omitempty"`
	DatabaseAliases         map[string]string `json:"database_aliases,omitempty"`
	Server                  ServerConfig      `json:"server"`
	QueryData               QueryDataConfig   `json:"gene_results"`
	FileExports             FileExportConfig  `json:"file_exports"`
}

// Load reads and validates a configuration document.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return &cfg, nil
}

// CvConfigByName returns the configuration of a CV, falling back to a
// default record when the CV has no explicit entry.  Extension CVs whose
// name ends in ":gene" annotate genes; other extension CVs annotate
// genotypes.
func (c *Config) CvConfigByName(cvName string) CvConfig {
	if cv, ok := c.CvConfig[cvName]; ok && cv != nil {
		return *cv
	}
	featureType := "gene"
	if strings.HasPrefix(cvName, "extension:") && !strings.HasSuffix(cvName, ":gene") {
		featureType = "genotype"
	}
	return CvConfig{FeatureType: featureType}
}

// LoadOrganism returns the organism the database is loaded for.
func (c *Config) LoadOrganism() (*Organism, error) {
	for i := range c.Organisms {
		if c.Organisms[i].TaxonID == c.LoadOrganismTaxonID {
			return &c.Organisms[i], nil
		}
	}
	return nil, fmt.Errorf("load organism taxon %d not in organism list", c.LoadOrganismTaxonID)
}

// FindChromosomeConfig looks up a chromosome by its feature name.
func (c *Config) FindChromosomeConfig(name string) (*ChromosomeConfig, error) {
	for i := range c.Chromosomes {
		if c.Chromosomes[i].Name == name {
			return &c.Chromosomes[i], nil
		}
	}
	return nil, fmt.Errorf("no chromosome configuration for %q", name)
}

// ExtensionDisplayName returns the display text of an extension relation,
// or the relation name with underscores replaced when none is configured.
func (c *Config) ExtensionDisplayName(relName string) string {
	for _, e := range c.ExtensionDisplayNames {
		if e.RelName == relName {
			return e.Display
		}
	}
	return strings.ReplaceAll(relName, "_", " ")
}

// EvidenceAbbrev maps a long evidence name back to its code.  Values
// already in code form, or unknown ones, pass through unchanged.
func (c *Config) EvidenceAbbrev(evidence string) string {
	if _, ok := c.EvidenceTypes[evidence]; ok {
		return evidence
	}
	for code, details := range c.EvidenceTypes {
		if strings.EqualFold(details.Long, evidence) {
			return code
		}
	}
	return evidence
}

// IsHasPartCv reports whether has_part propagation applies to the CV.
func IsHasPartCv(cvName string) bool {
	for _, name := range HasPartCvNames {
		if name == cvName {
			return true
		}
	}
	return false
}

// IsDescendantRel reports whether annotation propagates along the
// relation, taking the has_part CV allowlist into account.
func IsDescendantRel(relName, cvName string) bool {
	for _, name := range DescendantRelNames {
		if name != relName {
			continue
		}
		if relName == "has_part" {
			return IsHasPartCv(cvName)
		}
		return true
	}
	return false
}
