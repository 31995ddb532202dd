package query

import (
	"reflect"
	"testing"

	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func testMaps() *domain.APIMaps {
	chrLoc := func(start, end int) *domain.ChromosomeLocation {
		return &domain.ChromosomeLocation{
			ChromosomeName: "chromosome_1",
			StartPos:       start,
			EndPos:         end,
			Strand:         domain.StrandForward,
		}
	}
	return &domain.APIMaps{
		GenesByTermID: map[string][]string{
			"GO:0000001": {"SPAC1.01", "SPAC1.02"},
			"GO:0000002": {"SPAC1.02", "SPAC1.03"},
			// closure: the parent term lists every gene of its children
			"GO:0000000": {"SPAC1.01", "SPAC1.02", "SPAC1.03"},
			"FYPO:0000001": {"SPAC1.01", "SPAC1.02"},
		},
		GeneQueryData: map[string]*domain.GeneQueryData{
			"SPAC1.01": {
				GeneUniquename:   "SPAC1.01",
				Location:         chrLoc(100, 200),
				ProteinLength:    3,
				ProteinMolWeight: 350.5,
				ExonCount:        2,
				TMDomainCount:    1,
				OntAnnotations: []domain.GeneQueryTermData{
					{TermID: "FYPO:0000001", SingleAllele: true, ExpressionLevels: []string{"null"}},
				},
			},
			"SPAC1.02": {
				GeneUniquename:   "SPAC1.02",
				Location:         chrLoc(500, 900),
				ProteinLength:    5,
				ProteinMolWeight: 620.0,
				ExonCount:        1,
				OntAnnotations: []domain.GeneQueryTermData{
					{TermID: "FYPO:0000001", MultiAllele: true, ExpressionLevels: []string{"overexpression"}},
				},
				SubsetTermIDs: []string{"GO:0000005"},
			},
			// no transcript, no protein
			"SPAC1.03": {
				GeneUniquename: "SPAC1.03",
			},
			"SPAC1.04": {
				GeneUniquename:   "SPAC1.04",
				ProteinLength:    1,
				ProteinMolWeight: 120.0,
				ExonCount:        1,
			},
		},
		GeneSummaries: map[string]*domain.APIGeneSummary{
			"SPAC1.01": {
				Uniquename:        "SPAC1.01",
				Name:              "abc1",
				Product:           "transporter",
				UniprotIdentifier: "P00001",
				OrthologIDs: []domain.IdNameAndOrganism{
					{Identifier: "HGNC:100", Name: "ABC1", TaxonID: 9606},
				},
			},
		},
		Genes: map[string]*domain.GeneDetails{
			"SPAC1.01": {
				Uniquename: "SPAC1.01",
				Transcripts: []domain.TranscriptDetails{
					{
						Uniquename: "SPAC1.01.1",
						Parts: []domain.FeatureShort{
							{FeatureType: domain.FeatureTypeFivePrimeUTR, Residues: "cc"},
							{FeatureType: domain.FeatureTypeExon, Residues: "atg"},
							{FeatureType: domain.FeatureTypeCdsIntron, Residues: "gtag"},
							{FeatureType: domain.FeatureTypeExon, Residues: "aaa"},
							{FeatureType: domain.FeatureTypeThreePrimeUTR, Residues: "ttt"},
						},
						Protein: &domain.ProteinDetails{Sequence: "MK"},
					},
				},
			},
		},
		GeneSubsets: map[string]*domain.GeneSubsetDetails{
			"interpro:IPR000001": {
				Name:     "interpro:IPR000001",
				Elements: []string{"SPAC1.01", "SPAC1.04"},
			},
		},
	}
}

func evalNode(t *testing.T, node *QueryNode) []string {
	t.Helper()
	ids, err := eval(node, testMaps())
	if err != nil {
		t.Fatalf("eval failed: %v", err)
	}
	return ids
}

func termQuery(termid string) *QueryNode {
	return &QueryNode{Term: &TermNode{TermID: termid}}
}

func TestExecOrUnionPreservesFirstSeenOrder(t *testing.T) {
	node := &QueryNode{Or: []*QueryNode{
		termQuery("GO:0000001"),
		termQuery("GO:0000002"),
	}}
	got := evalNode(t, node)
	want := []string{"SPAC1.01", "SPAC1.02", "SPAC1.03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("or union = %v, want %v", got, want)
	}
}

func TestExecAndIntersection(t *testing.T) {
	node := &QueryNode{And: []*QueryNode{
		termQuery("GO:0000001"),
		termQuery("GO:0000002"),
	}}
	got := evalNode(t, node)
	want := []string{"SPAC1.02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("and intersection = %v, want %v", got, want)
	}
}

func TestExecNotPreservesLeftOrder(t *testing.T) {
	node := &QueryNode{Not: &NotNode{
		NodeA: termQuery("GO:0000000"),
		NodeB: termQuery("GO:0000002"),
	}}
	got := evalNode(t, node)
	want := []string{"SPAC1.01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("not = %v, want %v", got, want)
	}
}

func TestExecEmptyOperatorListIsError(t *testing.T) {
	for _, node := range []*QueryNode{
		{Or: []*QueryNode{}},
		{And: []*QueryNode{}},
	} {
		if _, err := eval(node, testMaps()); err != ErrEmptyOperatorList {
			t.Errorf("empty operator list: got err %v, want ErrEmptyOperatorList", err)
		}
	}
}

func TestExecNestedErrorsPropagate(t *testing.T) {
	node := &QueryNode{Or: []*QueryNode{
		termQuery("GO:0000001"),
		{And: []*QueryNode{}},
	}}
	if _, err := eval(node, testMaps()); err != ErrEmptyOperatorList {
		t.Errorf("nested error: got %v, want ErrEmptyOperatorList", err)
	}
}

func TestExecTermUsesAncestorClosure(t *testing.T) {
	got := evalNode(t, termQuery("GO:0000000"))
	want := []string{"SPAC1.01", "SPAC1.02", "SPAC1.03"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parent term query = %v, want %v", got, want)
	}
}

func TestExecTermSingleOrMultiAllele(t *testing.T) {
	single := &QueryNode{Term: &TermNode{
		TermID:              "FYPO:0000001",
		SingleOrMultiAllele: SingleAllele,
	}}
	if got := evalNode(t, single); !reflect.DeepEqual(got, []string{"SPAC1.01"}) {
		t.Errorf("single allele filter = %v, want [SPAC1.01]", got)
	}
	multi := &QueryNode{Term: &TermNode{
		TermID:              "FYPO:0000001",
		SingleOrMultiAllele: MultiAllele,
	}}
	if got := evalNode(t, multi); !reflect.DeepEqual(got, []string{"SPAC1.02"}) {
		t.Errorf("multi allele filter = %v, want [SPAC1.02]", got)
	}
}

func TestExecTermExpressionFilter(t *testing.T) {
	node := &QueryNode{Term: &TermNode{
		TermID:     "FYPO:0000001",
		Expression: "overexpression",
	}}
	if got := evalNode(t, node); !reflect.DeepEqual(got, []string{"SPAC1.02"}) {
		t.Errorf("expression filter = %v, want [SPAC1.02]", got)
	}
}

func TestExecSubset(t *testing.T) {
	node := &QueryNode{Subset: &SubsetNode{SubsetName: "interpro:IPR000001"}}
	got := evalNode(t, node)
	want := []string{"SPAC1.01", "SPAC1.04"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("subset = %v, want %v", got, want)
	}
}

func TestExecSubsetByTermID(t *testing.T) {
	node := &QueryNode{Subset: &SubsetNode{SubsetName: "GO:0000005"}}
	if got := evalNode(t, node); !reflect.DeepEqual(got, []string{"SPAC1.02"}) {
		t.Errorf("slim subset = %v, want [SPAC1.02]", got)
	}
}

func TestExecUnknownSubsetIsEmptyNotError(t *testing.T) {
	node := &QueryNode{Subset: &SubsetNode{SubsetName: "no_such_subset"}}
	got, err := eval(node, testMaps())
	if err != nil {
		t.Fatalf("unknown subset: unexpected error %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unknown subset = %v, want empty", got)
	}
}

func TestExecGeneList(t *testing.T) {
	node := &QueryNode{GeneList: &GeneListNode{GeneUniquenames: []string{"SPAC1.03", "SPAC1.01"}}}
	got := evalNode(t, node)
	want := []string{"SPAC1.03", "SPAC1.01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("gene list = %v, want %v", got, want)
	}
}

func TestExecProteinLengthRange(t *testing.T) {
	// lengths are 1, 3, 5 and one gene has no protein at all
	node := &QueryNode{IntRange: &IntRangeNode{
		RangeType: IntRangeProteinLength,
		Start:     intPtr(2),
		End:       intPtr(4),
	}}
	if got := evalNode(t, node); !reflect.DeepEqual(got, []string{"SPAC1.01"}) {
		t.Errorf("protein length 2..4 = %v, want [SPAC1.01]", got)
	}
}

func TestExecProteinRangeSkipsGenesWithoutProtein(t *testing.T) {
	node := &QueryNode{IntRange: &IntRangeNode{RangeType: IntRangeProteinLength}}
	for _, id := range evalNode(t, node) {
		if id == "SPAC1.03" {
			t.Errorf("gene without protein matched an unbounded protein range")
		}
	}
	tmNode := &QueryNode{IntRange: &IntRangeNode{RangeType: IntRangeTMDomainCount, Start: intPtr(0)}}
	for _, id := range evalNode(t, tmNode) {
		if id == "SPAC1.03" {
			t.Errorf("gene without protein matched a tm domain range")
		}
	}
}

func TestExecOpenEndedRange(t *testing.T) {
	node := &QueryNode{IntRange: &IntRangeNode{
		RangeType: IntRangeProteinLength,
		Start:     intPtr(4),
	}}
	if got := evalNode(t, node); !reflect.DeepEqual(got, []string{"SPAC1.02"}) {
		t.Errorf("protein length >= 4 = %v, want [SPAC1.02]", got)
	}
}

func TestExecGenomeRangeOverlap(t *testing.T) {
	// SPAC1.01 spans 100..200 and SPAC1.02 spans 500..900 on chromosome_1
	rangeQuery := func(start, end int) *QueryNode {
		return &QueryNode{IntRange: &IntRangeNode{
			RangeType:      IntRangeGenomeRangeContains,
			ChromosomeName: "chromosome_1",
			Start:          intPtr(start),
			End:            intPtr(end),
		}}
	}

	if got := evalNode(t, rangeQuery(50, 300)); !reflect.DeepEqual(got, []string{"SPAC1.01"}) {
		t.Errorf("genome range 50..300 = %v, want [SPAC1.01]", got)
	}

	// partial overlap matches on both sides of the window
	partial := evalNode(t, rangeQuery(150, 500))
	if !reflect.DeepEqual(partial, []string{"SPAC1.01", "SPAC1.02"}) {
		t.Errorf("genome range 150..500 = %v, want both overlapping genes", partial)
	}

	// window strictly inside a gene still matches it
	if got := evalNode(t, rangeQuery(120, 130)); !reflect.DeepEqual(got, []string{"SPAC1.01"}) {
		t.Errorf("genome range 120..130 = %v, want [SPAC1.01]", got)
	}

	// disjoint window between the two genes matches nothing
	if got := evalNode(t, rangeQuery(250, 400)); len(got) != 0 {
		t.Errorf("disjoint genome range matched genes: %v", got)
	}

	otherChr := &QueryNode{IntRange: &IntRangeNode{
		RangeType:      IntRangeGenomeRangeContains,
		ChromosomeName: "chromosome_2",
		Start:          intPtr(50),
		End:            intPtr(300),
	}}
	if got := evalNode(t, otherChr); len(got) != 0 {
		t.Errorf("wrong chromosome matched genes: %v", got)
	}
}

func TestExecFloatRange(t *testing.T) {
	node := &QueryNode{FloatRange: &FloatRangeNode{
		RangeType: FloatRangeProteinMolWeight,
		Start:     floatPtr(300),
		End:       floatPtr(400),
	}}
	if got := evalNode(t, node); !reflect.DeepEqual(got, []string{"SPAC1.01"}) {
		t.Errorf("mol weight 300..400 = %v, want [SPAC1.01]", got)
	}
}

func TestExecCombinedQuerySingleGene(t *testing.T) {
	node := &QueryNode{And: []*QueryNode{
		termQuery("GO:0000000"),
		{IntRange: &IntRangeNode{RangeType: IntRangeProteinLength, Start: intPtr(2), End: intPtr(4)}},
		{FloatRange: &FloatRangeNode{RangeType: FloatRangeProteinMolWeight, End: floatPtr(400)}},
	}}
	if got := evalNode(t, node); !reflect.DeepEqual(got, []string{"SPAC1.01"}) {
		t.Errorf("combined query = %v, want [SPAC1.01]", got)
	}
}

func TestParseRejectsUnknownNode(t *testing.T) {
	query, err := Parse([]byte(`{"constraints": {}}`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if _, err := Exec(query, testMaps()); err != ErrUnknownNode {
		t.Errorf("empty node: got %v, want ErrUnknownNode", err)
	}
}

func TestParseTermQuery(t *testing.T) {
	raw := `{
		"output_options": {"field_names": ["gene_uniquename", "name"]},
		"constraints": {"term": {"termid": "GO:0000001", "single_or_multi_allele": "single"}}
	}`
	query, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if query.Constraints.Term == nil {
		t.Fatalf("expected a term node")
	}
	if query.Constraints.Term.TermID != "GO:0000001" {
		t.Errorf("termid = %q", query.Constraints.Term.TermID)
	}
	if query.Constraints.Term.SingleOrMultiAllele != SingleAllele {
		t.Errorf("single_or_multi_allele = %q", query.Constraints.Term.SingleOrMultiAllele)
	}
}

func TestMakeRowsFields(t *testing.T) {
	opts := QueryOutputOptions{
		FieldNames: []string{"name", "product", "uniprot_identifier", "protein_length", "ortholog"},
	}
	rows := makeRows([]string{"SPAC1.01"}, opts, testMaps())
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.GeneUniquename != "SPAC1.01" || row.Name != "abc1" || row.Product != "transporter" {
		t.Errorf("row = %+v", row)
	}
	if row.UniprotID != "P00001" || row.ProteinLength != 3 {
		t.Errorf("row = %+v", row)
	}
	if !reflect.DeepEqual(row.Orthologs, []string{"HGNC:100"}) {
		t.Errorf("orthologs = %v", row.Orthologs)
	}
}

func TestMakeRowsProteinSequence(t *testing.T) {
	opts := QueryOutputOptions{Sequence: &SeqType{Kind: SeqTypeProtein}}
	rows := makeRows([]string{"SPAC1.01", "SPAC1.03"}, opts, testMaps())
	if rows[0].Sequence != "MK" {
		t.Errorf("protein sequence = %q, want MK", rows[0].Sequence)
	}
	if rows[1].Sequence != "" {
		t.Errorf("gene without protein: sequence = %q, want empty", rows[1].Sequence)
	}
}

func TestMakeRowsNucleotideSequenceOptions(t *testing.T) {
	cases := []struct {
		seqType SeqType
		want    string
	}{
		{SeqType{Kind: SeqTypeNucleotide}, "atgaaa"},
		{SeqType{Kind: SeqTypeNucleotide, IncludeIntrons: true}, "atggtagaaa"},
		{SeqType{Kind: SeqTypeNucleotide, Include5PrimeUTR: true, Include3PrimeUTR: true}, "ccatgaaattt"},
		{
			SeqType{Kind: SeqTypeNucleotide, IncludeIntrons: true, Include5PrimeUTR: true, Include3PrimeUTR: true},
			"ccatggtagaaattt",
		},
	}
	for _, c := range cases {
		opts := QueryOutputOptions{Sequence: &c.seqType}
		rows := makeRows([]string{"SPAC1.01"}, opts, testMaps())
		if rows[0].Sequence != c.want {
			t.Errorf("seq options %+v: got %q, want %q", c.seqType, rows[0].Sequence, c.want)
		}
	}
}
