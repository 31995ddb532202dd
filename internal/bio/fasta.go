package bio

import (
	"fmt"
	"io"
)

// FastaLineWidth is the column at which sequence lines wrap.
const FastaLineWidth = 60

// WriteFastaRecord writes one id + sequence pair wrapped at the standard
// width.
func WriteFastaRecord(w io.Writer, id, description, sequence string) error {
	header := ">" + id
	if description != "" {
		header += " " + description
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for start := 0; start < len(sequence); start += FastaLineWidth {
		end := start + FastaLineWidth
		if end > len(sequence) {
			end = len(sequence)
		}
		if _, err := fmt.Fprintln(w, sequence[start:end]); err != nil {
			return err
		}
	}
	return nil
}

// RevComp reverse-complements a nucleotide sequence, preserving case.
func RevComp(sequence string) string {
	out := make([]byte, len(sequence))
	for i := 0; i < len(sequence); i++ {
		out[len(sequence)-1-i] = complementBase(sequence[i])
	}
	return string(out)
}

func complementBase(base byte) byte {
	switch base {
	case 'a':
		return 't'
	case 't':
		return 'a'
	case 'g':
		return 'c'
	case 'c':
		return 'g'
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	default:
		return base
	}
}
