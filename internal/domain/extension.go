package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtRangeKind discriminates the range part of an annotation extension.
type ExtRangeKind int

const (
	ExtRangeGene ExtRangeKind = iota
	ExtRangePromoter
	ExtRangeSummaryGenes
	ExtRangeTerm
	ExtRangeSummaryTerms
	ExtRangeMisc
	ExtRangeDomain
	ExtRangeGeneProduct
	ExtRangeSummaryResidues
)

var extRangeTags = map[ExtRangeKind]string{
	ExtRangeGene:            "gene_uniquename",
	ExtRangePromoter:        "promoter_gene_uniquename",
	ExtRangeSummaryGenes:    "summary_gene_uniquenames",
	ExtRangeTerm:            "termid",
	ExtRangeSummaryTerms:    "summary_termids",
	ExtRangeMisc:            "misc",
	ExtRangeDomain:          "domain",
	ExtRangeGeneProduct:     "gene_product",
	ExtRangeSummaryResidues: "summary_residues",
}

// ExtRange is the typed range of one extension part.  Exactly one of the
// value fields is meaningful, selected by Kind.  SummaryGenes holds groups
// of gene ids: the inner slice has more than one element for ranges like
// "binds abc1 and def2".
type ExtRange struct {
	Kind            ExtRangeKind
	Value           string
	SummaryGenes    [][]string
	SummaryTerms    []string
	SummaryResidues []string
}

func GeneExtRange(geneUniquename string) ExtRange {
	return ExtRange{Kind: ExtRangeGene, Value: geneUniquename}
}

func TermExtRange(termID string) ExtRange {
	return ExtRange{Kind: ExtRangeTerm, Value: termID}
}

func MiscExtRange(text string) ExtRange {
	return ExtRange{Kind: ExtRangeMisc, Value: text}
}

func (r ExtRange) IsGene() bool { return r.Kind == ExtRangeGene }

// DisplayValue is the sortable rendering of the range, used for stable
// ordering of summary rows.
func (r ExtRange) DisplayValue() string {
	switch r.Kind {
	case ExtRangeSummaryGenes:
		groups := make([]string, 0, len(r.SummaryGenes))
		for _, group := range r.SummaryGenes {
			groups = append(groups, strings.Join(group, " and "))
		}
		return strings.Join(groups, ",")
	case ExtRangeSummaryTerms:
		return strings.Join(r.SummaryTerms, ",")
	case ExtRangeSummaryResidues:
		return strings.Join(r.SummaryResidues, ",")
	default:
		return r.Value
	}
}

func (r ExtRange) Equal(other ExtRange) bool {
	return r.Kind == other.Kind && r.DisplayValue() == other.DisplayValue()
}

func (r ExtRange) MarshalJSON() ([]byte, error) {
	tag, ok := extRangeTags[r.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown ext range kind: %d", r.Kind)
	}
	var inner interface{}
	switch r.Kind {
	case ExtRangeSummaryGenes:
		inner = r.SummaryGenes
	case ExtRangeSummaryTerms:
		inner = r.SummaryTerms
	case ExtRangeSummaryResidues:
		inner = r.SummaryResidues
	default:
		inner = r.Value
	}
	return json.Marshal(map[string]interface{}{tag: inner})
}

func (r *ExtRange) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return fmt.Errorf("ext range must have exactly one variant, got %d", len(raw))
	}
	for tag, inner := range raw {
		kind, ok := kindForTag(tag)
		if !ok {
			return fmt.Errorf("unknown ext range variant: %q", tag)
		}
		r.Kind = kind
		switch kind {
		case ExtRangeSummaryGenes:
			return json.Unmarshal(inner, &r.SummaryGenes)
		case ExtRangeSummaryTerms:
			return json.Unmarshal(inner, &r.SummaryTerms)
		case ExtRangeSummaryResidues:
			return json.Unmarshal(inner, &r.SummaryResidues)
		default:
			return json.Unmarshal(inner, &r.Value)
		}
	}
	return nil
}

func kindForTag(tag string) (ExtRangeKind, bool) {
	for kind, kindTag := range extRangeTags {
		if kindTag == tag {
			return kind, true
		}
	}
	return 0, false
}

// ExtPart is a single relation-typed part of an annotation extension.
type ExtPart struct {
	RelTypeName        string   `json:"rel_type_name"`
	RelTypeDisplayName string   `json:"rel_type_display_name,omitempty"`
	ExtRange           ExtRange `json:"ext_range"`
}

func (p ExtPart) Equal(other ExtPart) bool {
	return p.RelTypeName == other.RelTypeName && p.ExtRange.Equal(other.ExtRange)
}

// ExtensionEqual reports whether two extensions have the same parts in the
// same order, ignoring display names.
func ExtensionEqual(a, b []ExtPart) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// ExtensionKey renders an extension to a string usable as a grouping key.
func ExtensionKey(parts []ExtPart) string {
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(part.RelTypeName)
		sb.WriteByte('=')
		sb.WriteString(extRangeTags[part.ExtRange.Kind])
		sb.WriteByte(':')
		sb.WriteString(part.ExtRange.DisplayValue())
	}
	return sb.String()
}
