package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// EcoMapping translates GO evidence code abbreviations to ECO term ids.
// Rows with a GO ref in the second column take priority over the Default
// row for the same code.
type EcoMapping struct {
	defaults map[string]string
	byGoRef  map[string]string
}

// LoadEcoMapping parses the gaf-eco-mapping file: tab separated
// evidence-code, GO ref (or "Default"), ECO id rows with # comments.
func LoadEcoMapping(path string) (*EcoMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read eco mapping %s: %w", path, err)
	}
	defer f.Close()

	m := &EcoMapping{
		defaults: map[string]string{},
		byGoRef:  map[string]string{},
	}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, fmt.Errorf("eco mapping %s: malformed line %q", path, line)
		}
		code, ref, eco := fields[0], fields[1], fields[2]
		if ref == "Default" {
			m.defaults[code] = eco
		} else {
			m.byGoRef[code+"\t"+ref] = eco
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read eco mapping %s: %w", path, err)
	}
	return m, nil
}

// Lookup returns the ECO id for an evidence code, preferring a row scoped
// to the annotation's GO ref.
func (m *EcoMapping) Lookup(evidenceCode, goRef string) string {
	if goRef != "" {
		if eco, ok := m.byGoRef[evidenceCode+"\t"+goRef]; ok {
			return eco
		}
	}
	return m.defaults[evidenceCode]
}
