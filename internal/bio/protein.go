package bio

import (
	"math"
	"strings"
)

// Monoisotopic-free average residue masses in Daltons, water already
// removed.
var residueWeights = map[byte]float64{
	'A': 71.0788, 'R': 156.1875, 'N': 114.1038, 'D': 115.0886,
	'C': 103.1388, 'E': 129.1155, 'Q': 128.1307, 'G': 57.0519,
	'H': 137.1411, 'I': 113.1594, 'L': 113.1594, 'K': 128.1741,
	'M': 131.1926, 'F': 147.1766, 'P': 97.1167, 'S': 87.0782,
	'T': 101.1051, 'W': 186.2132, 'Y': 163.1760, 'V': 99.1326,
	'U': 150.0388, 'O': 237.3018,
}

const waterWeight = 18.01524

// Side-chain pKa values (EMBOSS set) for the charged residues, plus the
// terminal groups.
var positivePKa = map[byte]float64{'K': 10.8, 'R': 12.5, 'H': 6.5}
var negativePKa = map[byte]float64{'D': 3.9, 'E': 4.1, 'C': 8.5, 'Y': 10.1}

const nTermPKa = 8.6
const cTermPKa = 3.6

// MolecularWeight is the average mass of the peptide in Daltons.
func MolecularWeight(sequence string) float64 {
	sequence = normalize(sequence)
	if sequence == "" {
		return 0
	}
	total := waterWeight
	for i := 0; i < len(sequence); i++ {
		total += residueWeights[sequence[i]]
	}
	return total
}

// AverageResidueWeight is the molecular weight divided by the residue
// count.
func AverageResidueWeight(sequence string) float64 {
	sequence = normalize(sequence)
	if sequence == "" {
		return 0
	}
	return MolecularWeight(sequence) / float64(len(sequence))
}

// ChargeAtPH computes the net charge of the peptide at the given pH using
// the Henderson-Hasselbalch equation over the charged side chains and the
// terminal groups.
func ChargeAtPH(sequence string, ph float64) float64 {
	sequence = normalize(sequence)
	if sequence == "" {
		return 0
	}
	charge := positiveCharge(nTermPKa, ph) - negativeCharge(cTermPKa, ph)
	for i := 0; i < len(sequence); i++ {
		if pka, ok := positivePKa[sequence[i]]; ok {
			charge += positiveCharge(pka, ph)
		}
		if pka, ok := negativePKa[sequence[i]]; ok {
			charge -= negativeCharge(pka, ph)
		}
	}
	return charge
}

// IsoelectricPoint finds the pH at which the net charge is zero by
// bisection over the 0..14 range.
func IsoelectricPoint(sequence string) float64 {
	sequence = normalize(sequence)
	if sequence == "" {
		return 0
	}
	low, high := 0.0, 14.0
	for i := 0; i < 60; i++ {
		mid := (low + high) / 2
		if ChargeAtPH(sequence, mid) > 0 {
			low = mid
		} else {
			high = mid
		}
	}
	return (low + high) / 2
}

func positiveCharge(pka, ph float64) float64 {
	return 1 / (1 + math.Pow(10, ph-pka))
}

func negativeCharge(pka, ph float64) float64 {
	return 1 / (1 + math.Pow(10, pka-ph))
}

func normalize(sequence string) string {
	sequence = strings.ToUpper(strings.TrimSpace(sequence))
	return strings.TrimSuffix(sequence, "*")
}
