package build

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/kimrutherford/pombase-chado-json/internal/chado"
	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

// fixtureRaw builds a small snapshot: a 3-level is_a ontology
// (grandchild GC -> child C -> parent P), two genes on one chromosome,
// one allele/genotype pair, and annotations.
func fixtureRaw() *chado.Raw {
	return &chado.Raw{
		Organisms: []chado.OrganismRow{
			{OrganismID: 1, Genus: "Schizosaccharomyces", Species: "pombe", TaxonID: 4896},
			{OrganismID: 2, Genus: "Homo", Species: "sapiens", TaxonID: 9606},
		},
		Cvterms: []chado.CvtermRow{
			{CvtermID: 10, Name: "parent process", CvName: "biological_process", TermID: "GO:0000001"},
			{CvtermID: 11, Name: "child process", CvName: "biological_process", TermID: "GO:0000002"},
			{CvtermID: 12, Name: "grandchild process", CvName: "biological_process", TermID: "GO:0000003"},
			{CvtermID: 13, Name: "viable", CvName: "fission_yeast_phenotype", TermID: "FYPO:0002060"},
			{CvtermID: 14, Name: "inviable", CvName: "fission_yeast_phenotype", TermID: "FYPO:0002061"},
		},
		CvtermRelationships: []chado.CvtermRelationshipRow{
			{SubjectID: 12, ObjectID: 11, RelName: "is_a"},
			{SubjectID: 11, ObjectID: 10, RelName: "is_a"},
		},
		Pubs: []chado.PubRow{
			{PubID: 1, Uniquename: "PMID:12345", Title: "A study", Miniref: "J Cell 2005;1:1-10", PubType: "paper"},
		},
		Features: []chado.FeatureRow{
			{FeatureID: 100, Uniquename: "chromosome_1", TypeName: "chromosome", OrganismID: 1,
				Residues: "atgaaacccgggtttatgaaacccgggtttatgaaacccgggttt"},
			{FeatureID: 101, Uniquename: "SPAC1.01", Name: "abc1", TypeName: "gene", OrganismID: 1},
			{FeatureID: 102, Uniquename: "SPAC1.02", Name: "", TypeName: "gene", OrganismID: 1},
			{FeatureID: 103, Uniquename: "SPAC1.01.1", TypeName: "mRNA", OrganismID: 1},
			{FeatureID: 104, Uniquename: "SPAC1.01.1:exon:1", TypeName: "exon", OrganismID: 1},
			{FeatureID: 105, Uniquename: "SPAC1.01.1:pep", TypeName: "polypeptide", OrganismID: 1,
				Residues: "MKPG"},
			{FeatureID: 106, Uniquename: "SPAC1.01:allele-1", Name: "abc1delta", TypeName: "allele", OrganismID: 1},
			{FeatureID: 107, Uniquename: "genotype-1", TypeName: "genotype", OrganismID: 1},
		},
		Featurelocs: []chado.FeaturelocRow{
			{FeatureID: 101, SrcFeatureName: "chromosome_1", Fmin: 0, Fmax: 12, Strand: 1},
			{FeatureID: 102, SrcFeatureName: "chromosome_1", Fmin: 15, Fmax: 27, Strand: -1},
			{FeatureID: 103, SrcFeatureName: "chromosome_1", Fmin: 0, Fmax: 12, Strand: 1},
			{FeatureID: 104, SrcFeatureName: "chromosome_1", Fmin: 0, Fmax: 12, Strand: 1},
		},
		FeatureRelationships: []chado.FeatureRelationshipRow{
			{FeatureRelationshipID: 1, SubjectID: 103, ObjectID: 101, RelName: "part_of"},
			{FeatureRelationshipID: 2, SubjectID: 104, ObjectID: 103, RelName: "part_of"},
			{FeatureRelationshipID: 3, SubjectID: 105, ObjectID: 103, RelName: "derives_from"},
			{FeatureRelationshipID: 4, SubjectID: 106, ObjectID: 101, RelName: "instance_of"},
			{FeatureRelationshipID: 5, SubjectID: 106, ObjectID: 107, RelName: "part_of"},
			{FeatureRelationshipID: 6, SubjectID: 101, ObjectID: 102, RelName: "interacts_physically"},
		},
		Featureprops: []chado.FeaturepropRow{
			{FeatureID: 101, TypeName: "product", Value: "transcription factor Abc1"},
			{FeatureID: 106, TypeName: "allele_type", Value: "deletion"},
		},
		FeatureCvterms: []chado.FeatureCvtermRow{
			// gene SPAC1.01 annotated to the grandchild term
			{FeatureCvtermID: 1000, FeatureID: 101, CvtermID: 12, PubUniquename: "PMID:12345"},
			// genotype-1 (abc1 deletion) is inviable
			{FeatureCvtermID: 1001, FeatureID: 107, CvtermID: 14, PubUniquename: "PMID:12345"},
		},
		FeatureCvtermprops: []chado.FeatureCvtermpropRow{
			{FeatureCvtermID: 1000, TypeName: "evidence", Value: "IMP"},
		},
	}
}

func fixtureConfig() *config.Config {
	return &config.Config{
		DatabaseName:        "PomBase",
		LoadOrganismTaxonID: 4896,
		Organisms: []config.Organism{
			{TaxonID: 4896, Genus: "Schizosaccharomyces", Species: "pombe"},
		},
		CvConfig: map[string]*config.CvConfig{
			"biological_process": {
				FeatureType:                    "gene",
				SummaryRelationRangesToCollect: []string{"has_direct_input"},
			},
		},
		ViabilityTerms: config.ViabilityTerms{
			Viable:   "FYPO:0002060",
			Inviable: "FYPO:0002061",
		},
	}
}

func buildFixture(t *testing.T, raw *chado.Raw, cfg *config.Config) *domain.WebData {
	t.Helper()
	web, err := Build(raw, cfg, Params{ProgName: "test"}, logger.NewNop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return web
}

func TestBuildClosure(t *testing.T) {
	web := buildFixture(t, fixtureRaw(), fixtureConfig())

	// annotation to GC must be indexed under GC, C and P
	for _, termID := range []string{"GO:0000003", "GO:0000002", "GO:0000001"} {
		term := web.Terms[termID]
		if term == nil {
			t.Fatalf("term %s missing", termID)
		}
		if len(term.GenesAnnotatedWith) != 1 || term.GenesAnnotatedWith[0] != "SPAC1.01" {
			t.Errorf("term %s genes = %v, want [SPAC1.01]", termID, term.GenesAnnotatedWith)
		}
	}

	// ancestor groups record the propagation relation
	parent := web.Terms["GO:0000001"]
	groups := parent.CvAnnotations["biological_process"]
	if len(groups) != 1 {
		t.Fatalf("parent group count = %d, want 1", len(groups))
	}
	if len(groups[0].RelNames) != 1 || groups[0].RelNames[0] != "is_a" {
		t.Errorf("rel names = %v, want [is_a]", groups[0].RelNames)
	}
}

func TestBuildFatalOnMissingTerm(t *testing.T) {
	raw := fixtureRaw()
	raw.FeatureCvterms = append(raw.FeatureCvterms, chado.FeatureCvtermRow{
		FeatureCvtermID: 2000, FeatureID: 101, CvtermID: 999, PubUniquename: "PMID:12345",
	})
	if _, err := Build(raw, fixtureConfig(), Params{}, logger.NewNop()); err == nil {
		t.Fatal("Build succeeded with an annotation to a missing term")
	}
}

func TestBuildCycleGuard(t *testing.T) {
	raw := fixtureRaw()
	// malformed input: P is_a GC closes a cycle
	raw.CvtermRelationships = append(raw.CvtermRelationships,
		chado.CvtermRelationshipRow{SubjectID: 10, ObjectID: 12, RelName: "is_a"})

	// the walk must terminate; the closure is still complete
	web := buildFixture(t, raw, fixtureConfig())
	parent := web.Terms["GO:0000001"]
	if len(parent.GenesAnnotatedWith) != 1 {
		t.Errorf("parent genes = %v", parent.GenesAnnotatedWith)
	}
}

func TestBuildDeletionViability(t *testing.T) {
	web := buildFixture(t, fixtureRaw(), fixtureConfig())
	gene := web.Genes["SPAC1.01"]
	if gene.DeletionViability != "inviable" {
		t.Errorf("deletion viability = %q, want inviable", gene.DeletionViability)
	}
	other := web.Genes["SPAC1.02"]
	if other.DeletionViability != "unknown" {
		t.Errorf("unmeasured gene viability = %q, want unknown", other.DeletionViability)
	}
}

func TestBuildTranscriptAndProtein(t *testing.T) {
	web := buildFixture(t, fixtureRaw(), fixtureConfig())
	gene := web.Genes["SPAC1.01"]
	if len(gene.Transcripts) != 1 {
		t.Fatalf("transcript count = %d, want 1", len(gene.Transcripts))
	}
	transcript := gene.Transcripts[0]
	if transcript.ExonCount() != 1 {
		t.Errorf("exon count = %d, want 1", transcript.ExonCount())
	}
	if transcript.SplicedSequence() != "atgaaacccggg" {
		t.Errorf("spliced sequence = %q", transcript.SplicedSequence())
	}
	if transcript.Protein == nil {
		t.Fatal("protein missing")
	}
	if transcript.Protein.Sequence != "MKPG" {
		t.Errorf("protein sequence = %q", transcript.Protein.Sequence)
	}
	if transcript.Protein.MolecularWeight <= 0 {
		t.Error("protein molecular weight not computed")
	}
}

func TestBuildInteractions(t *testing.T) {
	web := buildFixture(t, fixtureRaw(), fixtureConfig())
	gene := web.Genes["SPAC1.01"]
	if len(gene.PhysicalInteractions) != 1 {
		t.Fatalf("interaction count = %d, want 1", len(gene.PhysicalInteractions))
	}
	if gene.PhysicalInteractions[0].InteractorUniquename != "SPAC1.02" {
		t.Errorf("interactor = %q", gene.PhysicalInteractions[0].InteractorUniquename)
	}
	// reciprocal view
	other := web.Genes["SPAC1.02"]
	if len(other.PhysicalInteractions) != 1 {
		t.Errorf("reciprocal interaction count = %d, want 1", len(other.PhysicalInteractions))
	}
}

func TestBuildExplicitLookupAbsence(t *testing.T) {
	raw := fixtureRaw()
	// other-organism gene referenced by a with value
	raw.Features = append(raw.Features, chado.FeatureRow{
		FeatureID: 200, Uniquename: "HGNC:1100", TypeName: "gene", OrganismID: 2,
	})
	raw.FeatureCvtermprops = append(raw.FeatureCvtermprops, chado.FeatureCvtermpropRow{
		FeatureCvtermID: 1000, TypeName: "with", Value: "HGNC:1100",
	})
	web := buildFixture(t, raw, fixtureConfig())

	gene := web.Genes["SPAC1.01"]
	short, present := gene.GenesByUniquename["HGNC:1100"]
	if !present {
		t.Fatal("excluded gene must appear in the lookup map")
	}
	if short != nil {
		t.Error("excluded gene must map to an explicit nil")
	}
}

func TestBuildDeterminism(t *testing.T) {
	first := buildFixture(t, fixtureRaw(), fixtureConfig())
	second := buildFixture(t, fixtureRaw(), fixtureConfig())

	firstJSON, err := json.Marshal(first.APIMaps)
	if err != nil {
		t.Fatalf("marshal first build: %v", err)
	}
	secondJSON, err := json.Marshal(second.APIMaps)
	if err != nil {
		t.Fatalf("marshal second build: %v", err)
	}
	if !bytes.Equal(firstJSON, secondJSON) {
		t.Error("two builds from the same input produced different api maps")
	}
}

func TestBuildGeneQueryData(t *testing.T) {
	web := buildFixture(t, fixtureRaw(), fixtureConfig())
	data := web.APIMaps.GeneQueryData["SPAC1.01"]
	if data == nil {
		t.Fatal("gene query data missing")
	}
	if data.ProteinLength != 4 {
		t.Errorf("protein length = %d, want 4", data.ProteinLength)
	}
	if data.ExonCount != 1 {
		t.Errorf("exon count = %d, want 1", data.ExonCount)
	}

	// closure termids all present
	found := map[string]bool{}
	for _, ann := range data.OntAnnotations {
		found[ann.TermID] = true
	}
	for _, termID := range []string{"GO:0000003", "GO:0000002", "GO:0000001"} {
		if !found[termID] {
			t.Errorf("query data missing closure term %s", termID)
		}
	}
}

func TestBuildFiltersInterProMemberDBs(t *testing.T) {
	cfg := fixtureConfig()
	cfg.InterProDBNamesToFilter = []string{"MOBIDB_LITE"}

	dd := &DomainData{
		InterProMatches: map[string][]domain.InterProMatch{
			"SPAC1.01": {
				{ID: "PF00001", DBName: "PFAM", InterProID: "IPR000001"},
				{ID: "mobidb-lite", DBName: "MOBIDB_LITE"},
			},
		},
		TMDomains: map[string][]domain.MatchLocation{},
	}

	web, err := Build(fixtureRaw(), cfg, Params{ProgName: "test", DomainData: dd}, logger.NewNop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	matches := web.Genes["SPAC1.01"].InterProMatches
	if len(matches) != 1 || matches[0].DBName != "PFAM" {
		t.Errorf("matches = %+v, want the PFAM match only", matches)
	}
}

func TestBuildCollectsOtherFeatures(t *testing.T) {
	raw := fixtureRaw()
	raw.Features = append(raw.Features,
		chado.FeatureRow{FeatureID: 110, Uniquename: "repeat_1", TypeName: "repeat_region", OrganismID: 1},
		chado.FeatureRow{FeatureID: 111, Uniquename: "cen1", TypeName: "regional_centromere", OrganismID: 1})
	raw.Featurelocs = append(raw.Featurelocs,
		chado.FeaturelocRow{FeatureID: 110, SrcFeatureName: "chromosome_1", Fmin: 30, Fmax: 40},
		chado.FeaturelocRow{FeatureID: 111, SrcFeatureName: "chromosome_1", Fmin: 20, Fmax: 25})

	web := buildFixture(t, raw, fixtureConfig())

	if len(web.OtherFeatures) != 2 {
		t.Fatalf("other features = %+v", web.OtherFeatures)
	}
	// chromosome order
	if web.OtherFeatures[0].Uniquename != "cen1" || web.OtherFeatures[1].Uniquename != "repeat_1" {
		t.Errorf("other feature order = %+v", web.OtherFeatures)
	}
	if web.OtherFeatures[1].FeatureType != "repeat_region" {
		t.Errorf("feature type = %q", web.OtherFeatures[1].FeatureType)
	}
}

func TestBuildAttachesPfamMotifs(t *testing.T) {
	pd := &PfamData{
		Motifs: map[string][]domain.PfamMotif{
			"SPAC1.01": {
				{ID: "PF00069", Name: "Pkinase", Locations: []domain.MatchLocation{{Start: 10, End: 270}}},
			},
		},
	}
	web, err := Build(fixtureRaw(), fixtureConfig(), Params{ProgName: "test", PfamData: pd}, logger.NewNop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	motifs := web.Genes["SPAC1.01"].PfamData
	if len(motifs) != 1 || motifs[0].ID != "PF00069" {
		t.Errorf("pfam motifs = %+v", motifs)
	}
}

func TestBuildCodonAdaptationIndex(t *testing.T) {
	raw := fixtureRaw()
	raw.Featureprops = append(raw.Featureprops, chado.FeaturepropRow{
		FeatureID: 105, TypeName: "codon_adaptation_index", Value: "0.53",
	})

	web := buildFixture(t, raw, fixtureConfig())

	gene := web.Genes["SPAC1.01"]
	if len(gene.Transcripts) == 0 {
		t.Fatal("gene has no transcripts")
	}
	transcript := gene.Transcripts[0]
	if transcript.Protein == nil {
		t.Fatal("transcript has no protein")
	}
	if got := transcript.Protein.CodonAdaptationIndex; got != 0.53 {
		t.Errorf("CAI = %v, want 0.53", got)
	}
}

func TestBuildEcoEvidenceUsesGoRef(t *testing.T) {
	raw := fixtureRaw()
	raw.FeatureCvterms = append(raw.FeatureCvterms, chado.FeatureCvtermRow{
		FeatureCvtermID: 1002, FeatureID: 101, CvtermID: 12, PubUniquename: "GO_REF:0000107",
	})
	raw.FeatureCvtermprops = append(raw.FeatureCvtermprops, chado.FeatureCvtermpropRow{
		FeatureCvtermID: 1002, TypeName: "evidence", Value: "IEA",
	})

	path := filepath.Join(t.TempDir(), "eco.txt")
	contents := "IMP\tDefault\tECO:0000315\nIEA\tGO_REF:0000107\tECO:0000265\nIEA\tDefault\tECO:0000501\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write mapping: %v", err)
	}
	eco, err := config.LoadEcoMapping(path)
	if err != nil {
		t.Fatalf("LoadEcoMapping failed: %v", err)
	}

	web, err := Build(raw, fixtureConfig(), Params{ProgName: "test", EcoMapping: eco}, logger.NewNop())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	details := web.Terms["GO:0000003"].AnnotationDetails
	if got := details[1002].EcoEvidence; got != "ECO:0000265" {
		t.Errorf("GO_REF scoped eco = %q, want ECO:0000265", got)
	}
	if got := details[1000].EcoEvidence; got != "ECO:0000315" {
		t.Errorf("default eco = %q, want ECO:0000315", got)
	}
}

func TestBuildSolrGeneSummaries(t *testing.T) {
	web := buildFixture(t, fixtureRaw(), fixtureConfig())
	var ids []string
	for _, summary := range web.SolrData.GeneSummaries {
		ids = append(ids, summary.ID)
	}
	if len(ids) == 0 {
		t.Fatal("no solr gene summaries built")
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("solr gene summaries not sorted: %v", ids)
	}
	for _, summary := range web.SolrData.GeneSummaries {
		if summary.ID == "SPAC1.01" {
			if summary.TaxonID == 0 {
				t.Errorf("solr gene summary missing taxon id")
			}
			return
		}
	}
	t.Errorf("SPAC1.01 missing from solr gene summaries: %v", ids)
}
