package domain

import (
	"encoding/json"
	"fmt"
)

// Throughput classifies the provenance of an annotation.
type Throughput string

const (
	HighThroughput  Throughput = "high"
	LowThroughput   Throughput = "low"
	NonExperimental Throughput = "non-experimental"
)

// WithFromValue is one "with" or "from" evidence value: a gene, a term, or
// a plain identifier from an external database.
type WithFromValue struct {
	Gene       *GeneShort
	Term       *TermShort
	Identifier string
}

func (w WithFromValue) MarshalJSON() ([]byte, error) {
	switch {
	case w.Gene != nil:
		return json.Marshal(map[string]interface{}{"gene": w.Gene})
	case w.Term != nil:
		return json.Marshal(map[string]interface{}{"term": w.Term})
	default:
		return json.Marshal(map[string]interface{}{"identifier": w.Identifier})
	}
}

func (w *WithFromValue) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if inner, ok := raw["gene"]; ok {
		w.Gene = &GeneShort{}
		return json.Unmarshal(inner, w.Gene)
	}
	if inner, ok := raw["term"]; ok {
		w.Term = &TermShort{}
		return json.Unmarshal(inner, w.Term)
	}
	if inner, ok := raw["identifier"]; ok {
		return json.Unmarshal(inner, &w.Identifier)
	}
	return fmt.Errorf("unknown with/from variant")
}

// Value is the sortable string form.
func (w WithFromValue) Value() string {
	switch {
	case w.Gene != nil:
		return w.Gene.Uniquename
	case w.Term != nil:
		return w.Term.TermID
	default:
		return w.Identifier
	}
}

// GeneExProps holds quantitative gene-expression measurements attached to
// an annotation.
type GeneExProps struct {
	CopiesPerCell    string `json:"copies_per_cell,omitempty"`
	AvgCopiesPerCell string `json:"avg_copies_per_cell,omitempty"`
	Scale            string `json:"scale,omitempty"`
}

// OntAnnotationDetail is the atomic annotation fact: one term attached to
// one or more genes or to a genotype, with its evidence and provenance.
// Identity is the synthetic ID assigned during the build; two details with
// the same content are still distinct annotations.
type OntAnnotationDetail struct {
	ID                 int             `json:"id"`
	Genes              []string        `json:"genes"`
	Reference          string          `json:"reference,omitempty"`
	Evidence           string          `json:"evidence,omitempty"`
	EcoEvidence        string          `json:"eco_evidence,omitempty"`
	Extension          []ExtPart       `json:"extension"`
	Withs              []WithFromValue `json:"withs,omitempty"`
	Froms              []WithFromValue `json:"froms,omitempty"`
	Residue            string          `json:"residue,omitempty"`
	Qualifiers         []string        `json:"qualifiers"`
	GeneExProps        *GeneExProps    `json:"gene_ex_props,omitempty"`
	Genotype           string          `json:"genotype,omitempty"`
	GenotypeBackground string          `json:"genotype_background,omitempty"`
	Conditions         []string        `json:"conditions,omitempty"`
	AssignedBy         string          `json:"assigned_by,omitempty"`
	Throughput         Throughput      `json:"throughput,omitempty"`
}

// TermSummaryRow is one collapsed row of the annotation summary table:
// genes and genotypes that share an identical extension.
type TermSummaryRow struct {
	GeneUniquenames     []string  `json:"gene_uniquenames,omitempty"`
	GenotypeUniquenames []string  `json:"genotype_uniquenames,omitempty"`
	Extension           []ExtPart `json:"extension,omitempty"`
}

// OntTermAnnotations groups the annotations of one container for one term.
// Negated ("NOT") annotations get their own group.
type OntTermAnnotations struct {
	Term        string           `json:"term"`
	IsNot       bool             `json:"is_not"`
	RelNames    []string         `json:"rel_names,omitempty"`
	Annotations []int            `json:"annotations"`
	Summary     []TermSummaryRow `json:"summary,omitempty"`
}

// OntAnnotationMap indexes term annotation groups by CV (ontology) name.
type OntAnnotationMap map[string][]*OntTermAnnotations

// AnnotationBlock is the shared annotation storage embedded in every
// entity that carries ontology annotations.  The *_by_uniquename maps hold
// every id referenced from the annotation details; a nil value marks an
// entity that was deliberately excluded (eg. wrong organism) so lookups
// can distinguish "excluded" from "dangling".
type AnnotationBlock struct {
	CvAnnotations     OntAnnotationMap             `json:"cv_annotations"`
	AnnotationDetails map[int]*OntAnnotationDetail `json:"annotation_details,omitempty"`
	GenesByUniquename map[string]*GeneShort        `json:"genes_by_uniquename,omitempty"`
	TermsByTermID     map[string]*TermShort        `json:"terms_by_termid,omitempty"`
	GenotypesByID     map[string]*GenotypeShort    `json:"genotypes_by_uniquename,omitempty"`
	AllelesByID       map[string]*AlleleShort      `json:"alleles_by_uniquename,omitempty"`
	ReferencesByID    map[string]*ReferenceShort   `json:"references_by_uniquename,omitempty"`
}

// AnnotationHost is implemented by every entity carrying an
// AnnotationBlock: genes, terms, references and genotypes.
type AnnotationHost interface {
	AnnotationsByCv() OntAnnotationMap
	Details() map[int]*OntAnnotationDetail
	GeneLookup() map[string]*GeneShort
	TermLookup() map[string]*TermShort
	GenotypeLookup() map[string]*GenotypeShort
}

func (b *AnnotationBlock) AnnotationsByCv() OntAnnotationMap { return b.CvAnnotations }

func (b *AnnotationBlock) Details() map[int]*OntAnnotationDetail { return b.AnnotationDetails }

func (b *AnnotationBlock) GeneLookup() map[string]*GeneShort { return b.GenesByUniquename }

func (b *AnnotationBlock) TermLookup() map[string]*TermShort { return b.TermsByTermID }

func (b *AnnotationBlock) GenotypeLookup() map[string]*GenotypeShort { return b.GenotypesByID }

// TargetOfAnnotation is the reciprocal view of an extension part that
// points at a gene: the pointed-at gene records who targets it.
type TargetOfAnnotation struct {
	OntologyName        string   `json:"ontology_name"`
	ExtRelDisplayName   string   `json:"ext_rel_display_name"`
	Genes               []string `json:"genes,omitempty"`
	GenotypeUniquename  string   `json:"genotype_uniquename,omitempty"`
	ReferenceUniquename string   `json:"reference_uniquename,omitempty"`
}

// InteractionAnnotation links two genes by a physical or genetic
// interaction.
type InteractionAnnotation struct {
	GeneUniquename       string     `json:"gene_uniquename"`
	InteractorUniquename string     `json:"interactor_uniquename"`
	Evidence             string     `json:"evidence,omitempty"`
	ReferenceUniquename  string     `json:"reference_uniquename,omitempty"`
	Throughput           Throughput `json:"throughput,omitempty"`
}

type OrthologAnnotation struct {
	GeneUniquename      string `json:"gene_uniquename"`
	OrthologTaxonID     int    `json:"ortholog_taxonid"`
	OrthologUniquename  string `json:"ortholog_uniquename"`
	Evidence            string `json:"evidence,omitempty"`
	ReferenceUniquename string `json:"reference_uniquename,omitempty"`
}

type ParalogAnnotation struct {
	GeneUniquename      string `json:"gene_uniquename"`
	ParalogUniquename   string `json:"paralog_uniquename"`
	Evidence            string `json:"evidence,omitempty"`
	ReferenceUniquename string `json:"reference_uniquename,omitempty"`
}
