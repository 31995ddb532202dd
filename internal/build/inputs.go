package build

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// DomainData carries the pre-parsed protein domain inputs, keyed by gene
// uniquename.
type DomainData struct {
	InterProMatches map[string][]domain.InterProMatch `json:"interpro_matches"`
	TMDomains       map[string][]domain.MatchLocation `json:"tm_domains"`
}

// LoadDomainData reads the InterPro/TM domain input file.  A missing file
// yields empty maps; domain data is an optional input.
func LoadDomainData(path string) (*DomainData, error) {
	empty := &DomainData{
		InterProMatches: map[string][]domain.InterProMatch{},
		TMDomains:       map[string][]domain.MatchLocation{},
	}
	if path == "" {
		return empty, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return nil, fmt.Errorf("read domain data %s: %w", path, err)
	}
	var dd DomainData
	if err := json.Unmarshal(data, &dd); err != nil {
		return nil, fmt.Errorf("parse domain data %s: %w", path, err)
	}
	if dd.InterProMatches == nil {
		dd.InterProMatches = map[string][]domain.InterProMatch{}
	}
	if dd.TMDomains == nil {
		dd.TMDomains = map[string][]domain.MatchLocation{}
	}
	return &dd, nil
}

// PfamData carries the pre-parsed Pfam motif calls, keyed by gene
// uniquename.
type PfamData struct {
	Motifs map[string][]domain.PfamMotif `json:"motifs"`
}

// LoadPfamData reads the Pfam motif input file.  Like the domain data, a
// missing file yields an empty map.
func LoadPfamData(path string) (*PfamData, error) {
	empty := &PfamData{
		Motifs: map[string][]domain.PfamMotif{},
	}
	if path == "" {
		return empty, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return nil, fmt.Errorf("read pfam data %s: %w", path, err)
	}
	var pd PfamData
	if err := json.Unmarshal(data, &pd); err != nil {
		return nil, fmt.Errorf("parse pfam data %s: %w", path, err)
	}
	if pd.Motifs == nil {
		pd.Motifs = map[string][]domain.PfamMotif{}
	}
	return &pd, nil
}

// NcRNAData carries the pre-parsed ncRNA family annotations, keyed by
// gene uniquename.
type NcRNAData struct {
	RfamAnnotations map[string][]domain.RfamAnnotation `json:"rfam_annotations"`
}

// LoadNcRNAData reads the ncRNA annotation input file.  Like the domain
// data, a missing file yields an empty map.
func LoadNcRNAData(path string) (*NcRNAData, error) {
	empty := &NcRNAData{
		RfamAnnotations: map[string][]domain.RfamAnnotation{},
	}
	if path == "" {
		return empty, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return empty, nil
		}
		return nil, fmt.Errorf("read ncRNA data %s: %w", path, err)
	}
	var nd NcRNAData
	if err := json.Unmarshal(data, &nd); err != nil {
		return nil, fmt.Errorf("parse ncRNA data %s: %w", path, err)
	}
	if nd.RfamAnnotations == nil {
		nd.RfamAnnotations = map[string][]domain.RfamAnnotation{}
	}
	return &nd, nil
}

// Params bundles the optional build inputs and the export provenance
// written into the metadata artifact.
type Params struct {
	DomainData         *DomainData
	PfamData           *PfamData
	NcRNAData          *NcRNAData
	EcoMapping         *config.EcoMapping
	DBCreationDatetime string
	ProgName           string
	ProgVersion        string
}
