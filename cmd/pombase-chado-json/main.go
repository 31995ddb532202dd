package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kimrutherford/pombase-chado-json/internal/build"
	"github.com/kimrutherford/pombase-chado-json/internal/chado"
	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/export"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
)

const progName = "pombase-chado-json"
const progVersion = "0.1.0"

var exporterFlags struct {
	configPath     string
	docConfigPath  string
	dsn            string
	domainDataPath string
	pfamDataPath   string
	ncRNADataPath  string
	ecoMappingPath string
	outputDir      string
	storeJSON      bool
	logMode        string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   progName,
		Short: "Export a Chado curation database as denormalized JSON, FASTA, GFF3 and TSV files",
		RunE:  runExport,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&exporterFlags.configPath, "config", "c", "", "curation policy config file (JSON)")
	flags.StringVar(&exporterFlags.docConfigPath, "doc-config", "", "website documentation config file (YAML)")
	flags.StringVarP(&exporterFlags.dsn, "postgresql-connection-string", "p", "", "Chado database connection string (or sqlite://...)")
	flags.StringVar(&exporterFlags.domainDataPath, "interpro-data", "", "InterPro domain data file (JSON)")
	flags.StringVar(&exporterFlags.pfamDataPath, "pfam-data-file", "", "Pfam motif data file (JSON)")
	flags.StringVar(&exporterFlags.ncRNADataPath, "rnacentral-data", "", "ncRNA family annotation file (JSON)")
	flags.StringVar(&exporterFlags.ecoMappingPath, "go-eco-mapping", "", "GO evidence code to ECO mapping file (TSV)")
	flags.StringVarP(&exporterFlags.outputDir, "output-dir", "o", "", "output directory for the exported files")
	flags.BoolVar(&exporterFlags.storeJSON, "store-json", false, "also store gene, term and reference documents in the web_json schema")
	flags.StringVar(&exporterFlags.logMode, "log-mode", "dev", "log mode: dev or prod")

	for _, required := range []string{"config", "postgresql-connection-string", "output-dir"} {
		if err := rootCmd.MarkFlagRequired(required); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	log, err := logger.New(exporterFlags.logMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load(exporterFlags.configPath)
	if err != nil {
		return err
	}
	docConfig := &config.DocConfig{}
	if exporterFlags.docConfigPath != "" {
		docConfig, err = config.LoadDocConfig(exporterFlags.docConfigPath)
		if err != nil {
			return err
		}
		log.Info("loaded doc config", "pages", len(docConfig.Pages))
	}

	domainData, err := build.LoadDomainData(exporterFlags.domainDataPath)
	if err != nil {
		return err
	}
	pfamData, err := build.LoadPfamData(exporterFlags.pfamDataPath)
	if err != nil {
		return err
	}
	ncRNAData, err := build.LoadNcRNAData(exporterFlags.ncRNADataPath)
	if err != nil {
		return err
	}
	ecoMapping := &config.EcoMapping{}
	if exporterFlags.ecoMappingPath != "" {
		ecoMapping, err = config.LoadEcoMapping(exporterFlags.ecoMappingPath)
		if err != nil {
			return err
		}
	}

	db, err := chado.Open(exporterFlags.dsn, log)
	if err != nil {
		return err
	}
	raw, err := chado.Load(db, log)
	if err != nil {
		return err
	}

	params := build.Params{
		DomainData:         domainData,
		PfamData:           pfamData,
		NcRNAData:          ncRNAData,
		EcoMapping:         ecoMapping,
		DBCreationDatetime: time.Now().UTC().Format("2006-01-02 15:04:05"),
		ProgName:           progName,
		ProgVersion:        progVersion,
	}
	web, err := build.Build(raw, cfg, params, log)
	if err != nil {
		return err
	}

	writer := export.NewWriter(cfg, docConfig, exporterFlags.outputDir, log)
	if err := writer.WriteAll(web); err != nil {
		return err
	}

	if exporterFlags.storeJSON {
		if err := export.StoreJSON(db, web, log); err != nil {
			return err
		}
	}
	return nil
}
