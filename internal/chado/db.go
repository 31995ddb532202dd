package chado

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

// Open connects to a Chado snapshot.  A DSN starting with "sqlite://"
// opens a SQLite export of the snapshot; anything else is passed to the
// Postgres driver.
func Open(dsn string, log *logger.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	}

	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(dsn, "sqlite://"); ok {
		log.Info("opening sqlite chado snapshot", "path", path)
		dialector = sqlite.Open(path)
	} else {
		log.Info("connecting to chado database")
		dialector = postgres.Open(dsn)
	}

	db, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Chado database: %w", err)
	}
	return db, nil
}
