package query

import (
	"sort"

	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// Exec evaluates a query against the API maps and shapes the result rows
// per the output options.  Evaluation errors propagate unchanged; no
// partial results are returned.
func Exec(q *Query, maps *domain.APIMaps) ([]ResultRow, error) {
	if q.Constraints == nil {
		return nil, ErrUnknownNode
	}
	geneIDs, err := eval(q.Constraints, maps)
	if err != nil {
		return nil, err
	}
	return makeRows(geneIDs, q.OutputOptions, maps), nil
}

func eval(node *QueryNode, maps *domain.APIMaps) ([]string, error) {
	switch {
	case node.Or != nil:
		return evalOr(node.Or, maps)
	case node.And != nil:
		return evalAnd(node.And, maps)
	case node.Not != nil:
		return evalNot(node.Not, maps)
	case node.Term != nil:
		return evalTerm(node.Term, maps), nil
	case node.Subset != nil:
		return evalSubset(node.Subset, maps), nil
	case node.GeneList != nil:
		return append([]string{}, node.GeneList.GeneUniquenames...), nil
	case node.IntRange != nil:
		return evalIntRange(node.IntRange, maps), nil
	case node.FloatRange != nil:
		return evalFloatRange(node.FloatRange, maps), nil
	default:
		return nil, ErrUnknownNode
	}
}

// evalOr unions child results, preserving first-seen order.
func evalOr(nodes []*QueryNode, maps *domain.APIMaps) ([]string, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyOperatorList
	}
	seen := map[string]bool{}
	var union []string
	for _, child := range nodes {
		childIDs, err := eval(child, maps)
		if err != nil {
			return nil, err
		}
		for _, id := range childIDs {
			if !seen[id] {
				seen[id] = true
				union = append(union, id)
			}
		}
	}
	return union, nil
}

// evalAnd intersects child results; the first child's order carries
// through, which keeps the result deterministic.
func evalAnd(nodes []*QueryNode, maps *domain.APIMaps) ([]string, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyOperatorList
	}
	result, err := eval(nodes[0], maps)
	if err != nil {
		return nil, err
	}
	result = dedup(result)
	for _, child := range nodes[1:] {
		childIDs, err := eval(child, maps)
		if err != nil {
			return nil, err
		}
		inChild := map[string]bool{}
		for _, id := range childIDs {
			inChild[id] = true
		}
		var kept []string
		for _, id := range result {
			if inChild[id] {
				kept = append(kept, id)
			}
		}
		result = kept
	}
	return result, nil
}

// evalNot keeps the elements of node_a missing from node_b, in node_a's
// order.
func evalNot(node *NotNode, maps *domain.APIMaps) ([]string, error) {
	aIDs, err := eval(node.NodeA, maps)
	if err != nil {
		return nil, err
	}
	bIDs, err := eval(node.NodeB, maps)
	if err != nil {
		return nil, err
	}
	inB := map[string]bool{}
	for _, id := range bIDs {
		inB[id] = true
	}
	var kept []string
	for _, id := range dedup(aIDs) {
		if !inB[id] {
			kept = append(kept, id)
		}
	}
	return kept, nil
}

func evalTerm(node *TermNode, maps *domain.APIMaps) []string {
	annotated := maps.GenesByTermID[node.TermID]
	filterByGenotype := node.Expression != "" ||
		(node.SingleOrMultiAllele != "" && node.SingleOrMultiAllele != AnyAllele)
	if !filterByGenotype {
		return append([]string{}, annotated...)
	}

	var matched []string
	for _, geneUniquename := range annotated {
		data := maps.GeneQueryData[geneUniquename]
		if data == nil {
			continue
		}
		for _, ann := range data.OntAnnotations {
			if ann.TermID != node.TermID || ann.IsNot {
				continue
			}
			if node.SingleOrMultiAllele == SingleAllele && !ann.SingleAllele {
				continue
			}
			if node.SingleOrMultiAllele == MultiAllele && !ann.MultiAllele {
				continue
			}
			if node.Expression != "" && !containsString(ann.ExpressionLevels, node.Expression) {
				continue
			}
			matched = append(matched, geneUniquename)
			break
		}
	}
	return matched
}

// evalSubset returns the genes of a named subset; an unknown subset
// yields an empty set, not an error.
func evalSubset(node *SubsetNode, maps *domain.APIMaps) []string {
	if subset, ok := maps.GeneSubsets[node.SubsetName]; ok {
		return append([]string{}, subset.Elements...)
	}
	// slim subsets are stored per gene as term ids
	var matched []string
	for _, geneUniquename := range sortedQueryDataKeys(maps) {
		data := maps.GeneQueryData[geneUniquename]
		if containsString(data.SubsetTermIDs, node.SubsetName) {
			matched = append(matched, geneUniquename)
		}
	}
	return matched
}

func evalIntRange(node *IntRangeNode, maps *domain.APIMaps) []string {
	var matched []string
	for _, geneUniquename := range sortedQueryDataKeys(maps) {
		data := maps.GeneQueryData[geneUniquename]
		if node.RangeType == IntRangeGenomeRangeContains {
			if genomeRangeOverlaps(node, data) {
				matched = append(matched, geneUniquename)
			}
			continue
		}
		value, ok := intScalar(node, data)
		if !ok {
			continue
		}
		if node.Start != nil && value < *node.Start {
			continue
		}
		if node.End != nil && value > *node.End {
			continue
		}
		matched = append(matched, geneUniquename)
	}
	return matched
}

// intScalar resolves the per-gene scalar; ok is false when the gene lacks
// the underlying data, in which case the gene never matches.
// genomeRangeOverlaps reports whether the gene extent overlaps the query
// window on the named chromosome.  The wire tag says "contains" but the
// match has always been an overlap test.
func genomeRangeOverlaps(node *IntRangeNode, data *domain.GeneQueryData) bool {
	if data.Location == nil {
		return false
	}
	if node.ChromosomeName != "" && data.Location.ChromosomeName != node.ChromosomeName {
		return false
	}
	if node.Start != nil && data.Location.EndPos < *node.Start {
		return false
	}
	if node.End != nil && data.Location.StartPos > *node.End {
		return false
	}
	return true
}

func intScalar(node *IntRangeNode, data *domain.GeneQueryData) (int, bool) {
	switch node.RangeType {
	case IntRangeProteinLength:
		if data.ProteinLength == 0 {
			return 0, false
		}
		return data.ProteinLength, true
	case IntRangeTMDomainCount:
		if data.ProteinLength == 0 {
			return 0, false
		}
		return data.TMDomainCount, true
	case IntRangeExonCount:
		if data.ExonCount == 0 {
			return 0, false
		}
		return data.ExonCount, true
	default:
		return 0, false
	}
}

func evalFloatRange(node *FloatRangeNode, maps *domain.APIMaps) []string {
	var matched []string
	for _, geneUniquename := range sortedQueryDataKeys(maps) {
		data := maps.GeneQueryData[geneUniquename]
		if node.RangeType != FloatRangeProteinMolWeight || data.ProteinMolWeight == 0 {
			continue
		}
		if node.Start != nil && data.ProteinMolWeight < *node.Start {
			continue
		}
		if node.End != nil && data.ProteinMolWeight > *node.End {
			continue
		}
		matched = append(matched, geneUniquename)
	}
	return matched
}

func sortedQueryDataKeys(maps *domain.APIMaps) []string {
	keys := make([]string, 0, len(maps.GeneQueryData))
	for key := range maps.GeneQueryData {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func dedup(ids []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
