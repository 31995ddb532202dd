package export

import (
	"fmt"
	"strings"

	"github.com/kimrutherford/pombase-chado-json/internal/domain"
)

// rnacentralEntry is one ncRNA record in the RNAcentral submission
// format.
type rnacentralEntry struct {
	PrimaryID string `json:"primaryId"`
	TaxonID   string `json:"taxonId"`
	SOTermID  string `json:"soTermId"`
	Sequence  string `json:"sequence"`
	Name      string `json:"name,omitempty"`
	Symbol    string `json:"symbol,omitempty"`
}

type rnacentralMetaData struct {
	DateProduced  string `json:"dateProduced"`
	DataProvider  string `json:"dataProvider"`
	SchemaVersion string `json:"schemaVersion"`
}

type rnacentralDocument struct {
	Data     []rnacentralEntry  `json:"data"`
	MetaData rnacentralMetaData `json:"metaData"`
}

// writeRNAcentral writes the non-coding RNA submission document.
func (w *Writer) writeRNAcentral(web *domain.WebData) error {
	document := rnacentralDocument{
		Data: []rnacentralEntry{},
		MetaData: rnacentralMetaData{
			DateProduced:  web.Metadata.DBCreationDatetime,
			DataProvider:  w.cfg.DatabaseName,
			SchemaVersion: "0.4.0",
		},
	}
	for _, gene := range sortedGenes(web) {
		rnaType := transcriptType(gene)
		if gene.FeatureType != "gene" || rnaType == "" || rnaType == "mRNA" {
			continue
		}
		sequence := strings.ToUpper(gene.SplicedTranscriptSequence())
		if sequence == "" {
			continue
		}
		document.Data = append(document.Data, rnacentralEntry{
			PrimaryID: fmt.Sprintf("%s:%s", w.cfg.DatabaseName, gene.Uniquename),
			TaxonID:   fmt.Sprintf("NCBITaxon:%d", gene.TaxonID),
			SOTermID:  gene.TranscriptSoTermID,
			Sequence:  sequence,
			Name:      gene.Product,
			Symbol:    gene.Name,
		})
	}
	return writeJSONFile(w.path("misc", "rnacentral.json"), &document)
}
