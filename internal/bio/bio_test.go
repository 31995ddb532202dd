package bio

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

func TestMolecularWeight(t *testing.T) {
	// single glycine: residue weight plus water
	got := MolecularWeight("G")
	want := 57.0519 + 18.01524
	if math.Abs(got-want) > 0.001 {
		t.Errorf("MolecularWeight(G) = %f, want %f", got, want)
	}

	if MolecularWeight("") != 0 {
		t.Error("empty sequence should have zero weight")
	}

	// trailing stop is ignored
	if MolecularWeight("G*") != got {
		t.Error("trailing * should not change the weight")
	}
}

func TestChargeAtPH(t *testing.T) {
	// lysine-rich peptide is positive at pH 7, aspartate-rich negative
	if ChargeAtPH("KKKK", 7) <= 0 {
		t.Error("poly-K should be positive at pH 7")
	}
	if ChargeAtPH("DDDD", 7) >= 0 {
		t.Error("poly-D should be negative at pH 7")
	}
}

func TestIsoelectricPoint(t *testing.T) {
	basic := IsoelectricPoint("KKKKKK")
	acidic := IsoelectricPoint("DDDDDD")
	if basic <= acidic {
		t.Errorf("pI(poly-K)=%f should exceed pI(poly-D)=%f", basic, acidic)
	}
	// charge at the pI should be ~0
	seq := "MKTAYIAKQRQISFVKSHFSRQLEERLGLIEVQ"
	pi := IsoelectricPoint(seq)
	if c := ChargeAtPH(seq, pi); math.Abs(c) > 0.01 {
		t.Errorf("charge at pI = %f, want ~0", c)
	}
}

func TestWriteFastaRecordWrapping(t *testing.T) {
	var buf bytes.Buffer
	seq := strings.Repeat("a", 130)
	if err := WriteFastaRecord(&buf, "SPAC1.01", "test product", seq); err != nil {
		t.Fatalf("WriteFastaRecord: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != ">SPAC1.01 test product" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("line count = %d, want 4", len(lines))
	}
	if len(lines[1]) != 60 || len(lines[2]) != 60 || len(lines[3]) != 10 {
		t.Errorf("wrapped lengths = %d,%d,%d", len(lines[1]), len(lines[2]), len(lines[3]))
	}
}

func TestRevComp(t *testing.T) {
	if got := RevComp("atgc"); got != "gcat" {
		t.Errorf("RevComp(atgc) = %q", got)
	}
	if got := RevComp("ATGCN"); got != "NGCAT" {
		t.Errorf("RevComp(ATGCN) = %q", got)
	}
}

func TestWriteGFFGene(t *testing.T) {
	gene := &domain.GeneDetails{
		Uniquename: "SPAC1.01",
		Name:       "abc1",
		Location: &domain.ChromosomeLocation{
			ChromosomeName: "chromosome_1",
			StartPos:       100,
			EndPos:         500,
			Strand:         domain.StrandReverse,
		},
		Transcripts: []domain.TranscriptDetails{
			{
				Uniquename:     "SPAC1.01.1",
				TranscriptType: "mRNA",
				Location: domain.ChromosomeLocation{
					ChromosomeName: "chromosome_1",
					StartPos:       100,
					EndPos:         500,
					Strand:         domain.StrandReverse,
				},
				Parts: []domain.FeatureShort{
					{
						FeatureType: domain.FeatureTypeExon,
						Uniquename:  "SPAC1.01.1:exon:1",
						Location: domain.ChromosomeLocation{
							ChromosomeName: "chromosome_1",
							StartPos:       100,
							EndPos:         300,
							Strand:         domain.StrandReverse,
						},
					},
					{
						FeatureType: domain.FeatureTypeCdsIntron,
						Uniquename:  "SPAC1.01.1:intron:1",
						Location: domain.ChromosomeLocation{
							ChromosomeName: "chromosome_1",
							StartPos:       301,
							EndPos:         350,
							Strand:         domain.StrandReverse,
						},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := WriteGFFGene(&buf, "PomBase", gene); err != nil {
		t.Fatalf("WriteGFFGene: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	// gene + mRNA + exon; the intron line is implied and omitted
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "\tgene\t100\t500\t.\t-\t.\tID=SPAC1.01;Name=abc1") {
		t.Errorf("gene line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "\tmRNA\t") || !strings.Contains(lines[1], "Parent=SPAC1.01") {
		t.Errorf("transcript line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "\texon\t100\t300\t") {
		t.Errorf("exon line = %q", lines[2])
	}
}

func TestWriteGFFFeature(t *testing.T) {
	feature := &domain.FeatureShort{
		FeatureType: "repeat_region",
		Uniquename:  "repeat_1",
		Location: domain.ChromosomeLocation{
			ChromosomeName: "chromosome_1",
			StartPos:       1000,
			EndPos:         1200,
			Strand:         domain.StrandUnstranded,
		},
	}

	var buf bytes.Buffer
	if err := WriteGFFFeature(&buf, "PomBase", feature); err != nil {
		t.Fatalf("WriteGFFFeature: %v", err)
	}
	line := strings.TrimRight(buf.String(), "\n")
	if line != "chromosome_1\tPomBase\trepeat_region\t1000\t1200\t.\t.\t.\tID=repeat_1" {
		t.Errorf("feature line = %q", line)
	}
}
