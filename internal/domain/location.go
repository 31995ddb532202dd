package domain

// Strand of a genomic location.
type Strand string

const (
	StrandForward    Strand = "forward"
	StrandReverse    Strand = "reverse"
	StrandUnstranded Strand = "unstranded"
)

func (s Strand) GFFString() string {
	switch s {
	case StrandForward:
		return "+"
	case StrandReverse:
		return "-"
	default:
		return "."
	}
}

// Phase is the CDS phase for GFF3 output.
type Phase string

const (
	PhaseZero Phase = "zero"
	PhaseOne  Phase = "one"
	PhaseTwo  Phase = "two"
)

func (p Phase) GFFString() string {
	switch p {
	case PhaseZero:
		return "0"
	case PhaseOne:
		return "1"
	case PhaseTwo:
		return "2"
	default:
		return "."
	}
}

// ChromosomeLocation is a 1-based inclusive range on a chromosome.
type ChromosomeLocation struct {
	ChromosomeName string `json:"chromosome_name"`
	StartPos       int    `json:"start_pos"`
	EndPos         int    `json:"end_pos"`
	Strand         Strand `json:"strand"`
	Phase          Phase  `json:"phase,omitempty"`
}

// Transcript part and miscellaneous feature types.
const (
	FeatureTypeFivePrimeUTR  = "five_prime_utr"
	FeatureTypeExon          = "exon"
	FeatureTypeCdsIntron     = "cds_intron"
	FeatureTypeThreePrimeUTR = "three_prime_utr"
)

// FeatureShort is a located sequence feature: a transcript part or one of
// the "other" features (repeats, centromere parts, origins etc.) that are
// exported to GFF but do not get a page of their own.
type FeatureShort struct {
	FeatureType string             `json:"feature_type"`
	Uniquename  string             `json:"uniquename"`
	Location    ChromosomeLocation `json:"location"`
	Residues    string             `json:"residues,omitempty"`
}

// TranscriptDetails holds the ordered parts of one transcript.  Parts are
// in chromosome order for forward-strand genes and reversed for
// reverse-strand genes, matching the order they are transcribed.
type TranscriptDetails struct {
	Uniquename     string              `json:"uniquename"`
	Location       ChromosomeLocation  `json:"location"`
	Parts          []FeatureShort      `json:"parts"`
	TranscriptType string              `json:"transcript_type"`
	Protein        *ProteinDetails     `json:"protein,omitempty"`
	CdsLocation    *ChromosomeLocation `json:"cds_location,omitempty"`
}

// ExonCount counts the exon parts.
func (t *TranscriptDetails) ExonCount() int {
	count := 0
	for _, part := range t.Parts {
		if part.FeatureType == FeatureTypeExon {
			count++
		}
	}
	return count
}

// SplicedSequence concatenates the exon residues.
func (t *TranscriptDetails) SplicedSequence() string {
	var seq string
	for _, part := range t.Parts {
		if part.FeatureType == FeatureTypeExon {
			seq += part.Residues
		}
	}
	return seq
}

// ProteinDetails is a translated peptide with its computed physicochemical
// properties.
type ProteinDetails struct {
	Uniquename           string  `json:"uniquename"`
	Sequence             string  `json:"sequence"`
	MolecularWeight      float64 `json:"molecular_weight"`
	AverageResidueWeight float64 `json:"average_residue_weight"`
	ChargeAtPH7          float64 `json:"charge_at_ph7"`
	IsoelectricPoint     float64 `json:"isoelectric_point"`
	CodonAdaptationIndex float64 `json:"codon_adaptation_index"`
}

// ChromosomeDetails is a full chromosome with its sequence.
type ChromosomeDetails struct {
	Name            string   `json:"name"`
	Residues        string   `json:"residues"`
	ENAIdentifier   string   `json:"ena_identifier"`
	GeneUniquenames []string `json:"gene_uniquenames"`
	TaxonID         int      `json:"taxonid"`
}

func (c *ChromosomeDetails) Short() ChromosomeShort {
	return ChromosomeShort{
		Name:          c.Name,
		Length:        len(c.Residues),
		ENAIdentifier: c.ENAIdentifier,
	}
}

type ChromosomeShort struct {
	Name          string `json:"name"`
	Length        int    `json:"length"`
	ENAIdentifier string `json:"ena_identifier"`
}
