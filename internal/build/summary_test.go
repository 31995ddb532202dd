package build

import (
	"reflect"
	"testing"

	"github.com/kimrutherford/pombase-chado-json/internal/chado"
	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

func TestSummaryCollapsesGenes(t *testing.T) {
	raw := fixtureRaw()
	// annotate the second gene to the same term with the same (empty)
	// extension; the summary must collapse to one row with both genes
	raw.FeatureCvterms = append(raw.FeatureCvterms, chado.FeatureCvtermRow{
		FeatureCvtermID: 1002, FeatureID: 102, CvtermID: 12, PubUniquename: "PMID:12345",
	})

	web := buildFixture(t, raw, fixtureConfig())
	term := web.Terms["GO:0000003"]
	groups := term.CvAnnotations["biological_process"]
	if len(groups) != 1 {
		t.Fatalf("group count = %d, want 1", len(groups))
	}
	summary := groups[0].Summary
	if len(summary) != 1 {
		t.Fatalf("summary rows = %d, want 1 collapsed row", len(summary))
	}
	genes := summary[0].GeneUniquenames
	if len(genes) != 2 || genes[0] != "SPAC1.01" || genes[1] != "SPAC1.02" {
		t.Errorf("summary genes = %v, want [SPAC1.01 SPAC1.02]", genes)
	}
}

func TestSummaryDistinctExtensionsStaySeparate(t *testing.T) {
	raw := fixtureRaw()
	raw.FeatureCvterms = append(raw.FeatureCvterms, chado.FeatureCvtermRow{
		FeatureCvtermID: 1002, FeatureID: 102, CvtermID: 12, PubUniquename: "PMID:12345",
	})
	raw.FeatureCvtermprops = append(raw.FeatureCvtermprops, chado.FeatureCvtermpropRow{
		FeatureCvtermID: 1002, TypeName: "annotation_extension",
		Value: "happens_during(GO:0000001)",
	})

	web := buildFixture(t, raw, fixtureConfig())
	term := web.Terms["GO:0000003"]
	summary := term.CvAnnotations["biological_process"][0].Summary
	if len(summary) != 2 {
		t.Fatalf("summary rows = %d, want 2", len(summary))
	}
	// the plain row sorts first
	if len(summary[0].Extension) != 0 {
		t.Error("row without extension should sort first")
	}
	if len(summary[1].Extension) != 1 || summary[1].Extension[0].RelTypeName != "happens_during" {
		t.Errorf("second row extension = %+v", summary[1].Extension)
	}
}

func TestSummaryGeneExtensionCollapsing(t *testing.T) {
	raw := fixtureRaw()
	// two annotations of the same gene to the same term, with extensions
	// pointing at different genes: the ranges collect into one summary
	// gene group part
	raw.FeatureCvterms = append(raw.FeatureCvterms, chado.FeatureCvtermRow{
		FeatureCvtermID: 1002, FeatureID: 101, CvtermID: 11, PubUniquename: "PMID:12345",
	})
	raw.FeatureCvtermprops = append(raw.FeatureCvtermprops,
		chado.FeatureCvtermpropRow{
			FeatureCvtermID: 1002, TypeName: "annotation_extension",
			Value: "has_direct_input(SPAC1.02)",
		},
		chado.FeatureCvtermpropRow{
			FeatureCvtermID: 1000, TypeName: "annotation_extension",
			Value: "has_direct_input(SPAC1.01)",
		})

	web := buildFixture(t, raw, fixtureConfig())
	term := web.Terms["GO:0000002"]
	var group *domain.OntTermAnnotations
	for _, g := range term.CvAnnotations["biological_process"] {
		if g.Term == "GO:0000002" {
			group = g
		}
	}
	if group == nil {
		t.Fatal("no direct group for GO:0000002")
	}
	// the direct annotation (1002) and the propagated one (1000) share
	// the gene-part structure, so they collapse into one row
	if len(group.Summary) != 1 {
		t.Fatalf("summary rows = %d, want 1", len(group.Summary))
	}
	ext := group.Summary[0].Extension
	if len(ext) != 1 {
		t.Fatalf("extension parts = %d, want 1", len(ext))
	}
	if ext[0].ExtRange.Kind != domain.ExtRangeSummaryGenes {
		t.Fatalf("range kind = %v, want summary genes", ext[0].ExtRange.Kind)
	}
	if len(ext[0].ExtRange.SummaryGenes) != 2 {
		t.Errorf("summary gene groups = %v, want two groups", ext[0].ExtRange.SummaryGenes)
	}
}

func TestSummaryHidesConfiguredRelations(t *testing.T) {
	raw := fixtureRaw()
	raw.FeatureCvtermprops = append(raw.FeatureCvtermprops, chado.FeatureCvtermpropRow{
		FeatureCvtermID: 1000, TypeName: "annotation_extension",
		Value: "happens_during(GO:0000001)",
	})

	cfg := fixtureConfig()
	cfg.CvConfig["biological_process"].SummaryRelationsToHide = []string{"happens_during"}

	web := buildFixture(t, raw, cfg)
	term := web.Terms["GO:0000003"]
	summary := term.CvAnnotations["biological_process"][0].Summary
	if len(summary) != 1 {
		t.Fatalf("summary rows = %d, want 1", len(summary))
	}
	if len(summary[0].Extension) != 0 {
		t.Errorf("hidden relation kept in summary: %+v", summary[0].Extension)
	}

	// the detail itself keeps the full extension
	detail := term.AnnotationDetails[1000]
	if len(detail.Extension) != 1 {
		t.Errorf("detail extension = %+v, want the unhidden part", detail.Extension)
	}
}

func TestSummaryCollectsOnlyConfiguredRelations(t *testing.T) {
	raw := fixtureRaw()
	raw.FeatureCvtermprops = append(raw.FeatureCvtermprops, chado.FeatureCvtermpropRow{
		FeatureCvtermID: 1000, TypeName: "annotation_extension",
		Value: "binds(SPAC1.02)",
	})

	// binds is not in summary_relation_ranges_to_collect, so the gene
	// range stays a plain extension part
	web := buildFixture(t, raw, fixtureConfig())
	term := web.Terms["GO:0000003"]
	summary := term.CvAnnotations["biological_process"][0].Summary
	if len(summary) != 1 {
		t.Fatalf("summary rows = %d, want 1", len(summary))
	}
	ext := summary[0].Extension
	if len(ext) != 1 || ext[0].RelTypeName != "binds" {
		t.Fatalf("extension = %+v", ext)
	}
	if ext[0].ExtRange.Kind == domain.ExtRangeSummaryGenes {
		t.Error("uncollected relation turned into a summary gene group")
	}
}

func TestSortDetailsByGene(t *testing.T) {
	raw := fixtureRaw()
	raw.FeatureCvterms = append(raw.FeatureCvterms,
		chado.FeatureCvtermRow{
			FeatureCvtermID: 1002, FeatureID: 102, CvtermID: 12, PubUniquename: "PMID:12345",
		},
		chado.FeatureCvtermRow{
			FeatureCvtermID: 1003, FeatureID: 101, CvtermID: 12, PubUniquename: "PMID:67890",
		})

	cfg := fixtureConfig()
	cfg.CvConfig["biological_process"].SortDetailsBy = []string{"gene"}

	web := buildFixture(t, raw, cfg)
	term := web.Terms["GO:0000003"]
	got := term.CvAnnotations["biological_process"][0].Annotations
	// SPAC1.01 details before the SPAC1.02 one, ids break the tie
	want := []int{1000, 1003, 1002}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("detail order = %v, want %v", got, want)
	}
}

func TestSplitByParentsGrouping(t *testing.T) {
	cfg := fixtureConfig()
	cfg.CvConfig["biological_process"].SplitByParents = []config.TermAndName{
		{TermID: "GO:0000002", Name: "child_process"},
	}

	web := buildFixture(t, fixtureRaw(), cfg)
	gene := web.Genes["SPAC1.01"]

	// GO:0000003 and GO:0000002 are under the split parent
	split := gene.CvAnnotations["child_process"]
	if len(split) != 2 {
		t.Fatalf("child_process groups = %d, want 2", len(split))
	}
	for _, group := range split {
		if group.Term != "GO:0000002" && group.Term != "GO:0000003" {
			t.Errorf("unexpected term %s under split name", group.Term)
		}
	}

	// the root term stays under the plain CV name
	plain := gene.CvAnnotations["biological_process"]
	if len(plain) != 1 || plain[0].Term != "GO:0000001" {
		t.Errorf("biological_process groups = %+v, want only GO:0000001", plain)
	}
}

func TestOrderExtPartsAlwaysLast(t *testing.T) {
	cfg := fixtureConfig()
	cfg.ExtensionRelationOrder = config.ExtensionRelationOrder{
		RelationOrder: []string{"directly_regulates", "binds"},
		AlwaysLast:    []string{"happens_during"},
	}
	b := &Builder{cfg: cfg}

	parts := []domain.ExtPart{
		{RelTypeName: "happens_during", ExtRange: domain.TermExtRange("GO:0000001")},
		{RelTypeName: "unlisted_rel", ExtRange: domain.MiscExtRange("x")},
		{RelTypeName: "binds", ExtRange: domain.GeneExtRange("SPAC1.02")},
		{RelTypeName: "directly_regulates", ExtRange: domain.GeneExtRange("SPAC1.01")},
	}
	ordered := b.orderExtParts(parts)

	want := []string{"directly_regulates", "binds", "unlisted_rel", "happens_during"}
	for i, rel := range want {
		if ordered[i].RelTypeName != rel {
			t.Errorf("position %d = %q, want %q", i, ordered[i].RelTypeName, rel)
		}
	}
}
