package query

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Errors returned to the caller as a structured query failure rather than
// a server error.
var (
	ErrEmptyOperatorList = errors.New("boolean operator with empty node list")
	ErrUnknownNode       = errors.New("unknown query node")
)

// IntRangeType names the precomputed per-gene integer scalars.
type IntRangeType string

const (
	IntRangeGenomeRangeContains IntRangeType = "genome_range_contains"
	IntRangeProteinLength       IntRangeType = "protein_length"
	IntRangeTMDomainCount       IntRangeType = "tm_domain_count"
	IntRangeExonCount           IntRangeType = "exon_count"
)

// FloatRangeType names the per-gene float scalars.
type FloatRangeType string

const (
	FloatRangeProteinMolWeight FloatRangeType = "protein_mol_weight"
)

// SingleOrMultiAllele filters term matches by genotype allele count.
type SingleOrMultiAllele string

const (
	SingleAllele SingleOrMultiAllele = "single"
	MultiAllele  SingleOrMultiAllele = "multi"
	AnyAllele    SingleOrMultiAllele = "both"
)

// TermNode matches genes annotated to a term, directly or through the
// annotation closure.
type TermNode struct {
	TermID              string              `json:"termid"`
	Name                string              `json:"name,omitempty"`
	SingleOrMultiAllele SingleOrMultiAllele `json:"single_or_multi_allele,omitempty"`
	Expression          string              `json:"expression,omitempty"`
}

type NotNode struct {
	NodeA *QueryNode `json:"node_a"`
	NodeB *QueryNode `json:"node_b"`
}

type SubsetNode struct {
	SubsetName string `json:"subset_name"`
}

type GeneListNode struct {
	GeneUniquenames []string `json:"gene_uniquenames"`
}

type IntRangeNode struct {
	RangeType      IntRangeType `json:"range_type"`
	Start          *int         `json:"start,omitempty"`
	End            *int         `json:"end,omitempty"`
	ChromosomeName string       `json:"chromosome_name,omitempty"`
}

type FloatRangeNode struct {
	RangeType FloatRangeType `json:"range_type"`
	Start     *float64       `json:"start,omitempty"`
	End       *float64       `json:"end,omitempty"`
}

// QueryNode is one node of the boolean query tree.  Exactly one field is
// set; the JSON form is a single-key object named after the variant.
type QueryNode struct {
	Or         []*QueryNode    `json:"or,omitempty"`
	And        []*QueryNode    `json:"and,omitempty"`
	Not        *NotNode        `json:"not,omitempty"`
	Term       *TermNode       `json:"term,omitempty"`
	Subset     *SubsetNode     `json:"subset,omitempty"`
	GeneList   *GeneListNode   `json:"gene_list,omitempty"`
	IntRange   *IntRangeNode   `json:"int_range,omitempty"`
	FloatRange *FloatRangeNode `json:"float_range,omitempty"`
}

// SeqType selects the sequence included with each result row.
type SeqType struct {
	// "protein", "nucleotide" or "none"
	Kind             string `json:"seq_type"`
	IncludeIntrons   bool   `json:"include_introns,omitempty"`
	Include5PrimeUTR bool   `json:"include_5_prime_utr,omitempty"`
	Include3PrimeUTR bool   `json:"include_3_prime_utr,omitempty"`
}

// QueryOutputOptions shapes the result rows; it never affects which genes
// match.
type QueryOutputOptions struct {
	FieldNames []string `json:"field_names,omitempty"`
	Sequence   *SeqType `json:"sequence,omitempty"`
}

// Query is the top-level query document.
type Query struct {
	OutputOptions QueryOutputOptions `json:"output_options"`
	Constraints   *QueryNode         `json:"constraints"`
}

// ResultRow is one matched gene with the requested output fields.
type ResultRow struct {
	GeneUniquename  string   `json:"gene_uniquename"`
	Sequence        string   `json:"sequence,omitempty"`
	Name            string   `json:"name,omitempty"`
	Product         string   `json:"product,omitempty"`
	UniprotID       string   `json:"uniprot_identifier,omitempty"`
	ExonCount       int      `json:"exon_count,omitempty"`
	TMDomainCount   int      `json:"tm_domain_count,omitempty"`
	ProteinLength   int      `json:"protein_length,omitempty"`
	MolecularWeight float64  `json:"molecular_weight,omitempty"`
	Orthologs       []string `json:"orthologs,omitempty"`
}

// Result is the structured query response: a status plus the matched
// rows.  Query failures set the status and leave the rows empty.
type Result struct {
	Status string      `json:"status"`
	Rows   []ResultRow `json:"rows"`
}

// Parse decodes a query document.
func Parse(data []byte) (*Query, error) {
	var q Query
	if err := json.Unmarshal(data, &q); err != nil {
		return nil, fmt.Errorf("malformed query: %w", err)
	}
	if q.Constraints == nil {
		return nil, fmt.Errorf("query has no constraints")
	}
	return &q, nil
}
