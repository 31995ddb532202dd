package export

import (
	"encoding/json"
	"fmt"
	"sort"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kimrutherford/pombase-chado-json/internal/domain"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

// GeneJSON is one gene record in the web_json side channel, the full
// denormalized document as a JSONB column.
type GeneJSON struct {
	ID         int            `gorm:"primaryKey"`
	Uniquename string         `gorm:"uniqueIndex;not null"`
	Data       datatypes.JSON `gorm:"not null"`
}

func (GeneJSON) TableName() string { return "web_json.gene" }

type TermJSON struct {
	ID     int            `gorm:"primaryKey"`
	TermID string         `gorm:"column:termid;uniqueIndex;not null"`
	Data   datatypes.JSON `gorm:"not null"`
}

func (TermJSON) TableName() string { return "web_json.term" }

type ReferenceJSON struct {
	ID         int            `gorm:"primaryKey"`
	Uniquename string         `gorm:"uniqueIndex;not null"`
	Data       datatypes.JSON `gorm:"not null"`
}

func (ReferenceJSON) TableName() string { return "web_json.reference" }

var storeIndexStatements = []string{
	"CREATE INDEX IF NOT EXISTS gene_jsonb_idx ON web_json.gene USING gin (data jsonb_path_ops)",
	"CREATE INDEX IF NOT EXISTS term_jsonb_idx ON web_json.term USING gin (data jsonb_path_ops)",
	"CREATE INDEX IF NOT EXISTS reference_jsonb_idx ON web_json.reference USING gin (data jsonb_path_ops)",
}

// StoreJSON writes the by-gene, by-term and by-reference documents to the
// web_json schema.  Postgres only; existing rows are replaced.
func StoreJSON(db *gorm.DB, web *domain.WebData, log *logger.Logger) error {
	log = log.With("component", "json_store")

	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS web_json").Error; err != nil {
		return fmt.Errorf("create web_json schema: %w", err)
	}
	if err := db.AutoMigrate(&GeneJSON{}, &TermJSON{}, &ReferenceJSON{}); err != nil {
		return fmt.Errorf("migrate web_json tables: %w", err)
	}

	if err := storeGenes(db, web); err != nil {
		return err
	}
	if err := storeTerms(db, web); err != nil {
		return err
	}
	if err := storeReferences(db, web); err != nil {
		return err
	}

	for _, statement := range storeIndexStatements {
		if err := db.Exec(statement).Error; err != nil {
			return fmt.Errorf("create jsonb index: %w", err)
		}
	}

	log.Info("stored json documents",
		"genes", len(web.Genes),
		"terms", len(web.Terms),
		"references", len(web.References))
	return nil
}

const storeBatchSize = 200

func storeGenes(db *gorm.DB, web *domain.WebData) error {
	if err := db.Exec("DELETE FROM web_json.gene").Error; err != nil {
		return err
	}
	var rows []GeneJSON
	for _, uniquename := range sortedGeneIDs(web.Genes) {
		data, err := json.Marshal(web.Genes[uniquename])
		if err != nil {
			return fmt.Errorf("marshal gene %s: %w", uniquename, err)
		}
		rows = append(rows, GeneJSON{Uniquename: uniquename, Data: data})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.CreateInBatches(rows, storeBatchSize).Error
}

func storeTerms(db *gorm.DB, web *domain.WebData) error {
	if err := db.Exec("DELETE FROM web_json.term").Error; err != nil {
		return err
	}
	var rows []TermJSON
	for _, termID := range sortedTermIDs(web.Terms) {
		data, err := json.Marshal(web.Terms[termID])
		if err != nil {
			return fmt.Errorf("marshal term %s: %w", termID, err)
		}
		rows = append(rows, TermJSON{TermID: termID, Data: data})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.CreateInBatches(rows, storeBatchSize).Error
}

func storeReferences(db *gorm.DB, web *domain.WebData) error {
	if err := db.Exec("DELETE FROM web_json.reference").Error; err != nil {
		return err
	}
	var rows []ReferenceJSON
	var referenceIDs []string
	for uniquename := range web.References {
		referenceIDs = append(referenceIDs, uniquename)
	}
	sort.Strings(referenceIDs)
	for _, uniquename := range referenceIDs {
		data, err := json.Marshal(web.References[uniquename])
		if err != nil {
			return fmt.Errorf("marshal reference %s: %w", uniquename, err)
		}
		rows = append(rows, ReferenceJSON{Uniquename: uniquename, Data: data})
	}
	if len(rows) == 0 {
		return nil
	}
	return db.CreateInBatches(rows, storeBatchSize).Error
}

func sortedGeneIDs(genes map[string]*domain.GeneDetails) []string {
	geneIDs := make([]string, 0, len(genes))
	for uniquename := range genes {
		geneIDs = append(geneIDs, uniquename)
	}
	sort.Strings(geneIDs)
	return geneIDs
}
