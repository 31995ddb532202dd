package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kimrutherford/pombase-chado-json/internal/config"
	"github.com/kimrutherford/pombase-chado-json/internal/http/handlers"
	"github.com/kimrutherford/pombase-chado-json/internal/observability"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/envutil"
	"github.com/kimrutherford/pombase-chado-json/internal/platform/logger"
	"github.com/kimrutherford/pombase-chado-json/internal/query"
	"github.com/kimrutherford/pombase-chado-json/internal/search"
	"github.com/kimrutherford/pombase-chado-json/internal/server"
)

const serviceName = "pombase-server"
const serviceVersion = "0.1.0"

var serverFlags struct {
	configPath      string
	searchMapsPath  string
	geneSubsetsPath string
	webRootDir      string
	logMode         string
}

func main() {
	rootCmd := &cobra.Command{
		Use:   serviceName,
		Short: "Serve the exported dataset: entity lookups, gene queries and term completion",
		RunE:  runServer,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&serverFlags.configPath, "config", "c", "", "curation policy config file (JSON)")
	flags.StringVarP(&serverFlags.searchMapsPath, "search-maps", "m", "", "api maps file from the exporter (api_maps.json.gz)")
	flags.StringVar(&serverFlags.geneSubsetsPath, "gene-subsets", "", "extra gene subsets file (JSON)")
	flags.StringVarP(&serverFlags.webRootDir, "web-root-dir", "w", "", "directory with the web app files")
	flags.StringVar(&serverFlags.logMode, "log-mode", "prod", "log mode: dev or prod")

	for _, required := range []string{"config", "search-maps"} {
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

func runServer(cmd *cobra.Command, args []string) error {
	log, err := logger.New(serverFlags.logMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	cfg, err := config.Load(serverFlags.configPath)
	if err != nil {
		return err
	}

	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: envutil.GetEnv("ENVIRONMENT", "production", log),
		Version:     serviceVersion,
	})
	if shutdownOtel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOtel(ctx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	data, err := query.NewServerData(serverFlags.searchMapsPath, serverFlags.geneSubsetsPath, cfg.Server, log)
	if err != nil {
		return err
	}
	searchClient := search.NewClient(cfg.Server, log)
	dataHandler := handlers.NewDataHandler(data, searchClient, log)

	router := server.NewRouter(server.RouterConfig{
		DataHandler: dataHandler,
		WebRoot:     serverFlags.webRootDir,
		ServiceName: serviceName,
	})

	port := envutil.GetEnv("PORT", "8500", log)
	log.Info("server listening", "port", port)
	return router.Run(":" + port)
}
