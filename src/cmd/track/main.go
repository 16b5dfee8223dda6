package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rwilkes/optrack/src/dbutils"
	"github.com/rwilkes/optrack/src/eventconsumers"
	"github.com/rwilkes/optrack/src/eventmodels"
	"github.com/rwilkes/optrack/src/eventpubsub"
	"github.com/rwilkes/optrack/src/eventservices"
	"github.com/rwilkes/optrack/src/handler"
	"github.com/rwilkes/optrack/src/portfoliodb"
	"github.com/rwilkes/optrack/src/recognition"
	"github.com/rwilkes/optrack/src/utils"
)

type RunArgs struct {
	ConfigPath string
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/track/main.go --config tracker.yaml",
	Short: "Track a live options portfolio and record position deltas",
	Run: func(cmd *cobra.Command, args []string) {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			log.Fatalf("error getting config: %v", err)
		}

		if err := Run(RunArgs{ConfigPath: configPath}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func loadConfig(path string) (*eventmodels.TrackerConfigYAML, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loadConfig: failed to read %s: %w", path, err)
	}

	var config eventmodels.TrackerConfigYAML
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("loadConfig: failed to parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("loadConfig: %w", err)
	}

	return &config, nil
}

func newMarketDataClient(config *eventmodels.TrackerConfigYAML, bearerToken string) (eventservices.MarketDataClient, error) {
	switch config.MarketData.Provider {
	case "polygon":
		apiKey, err := utils.GetEnv("POLYGON_API_KEY")
		if err != nil {
			return nil, err
		}

		return eventservices.NewPolygonMarketDataClient(apiKey), nil

	default:
		historyURL := fmt.Sprintf("%s/markets/history", config.Tradier.BaseURL)
		return eventservices.NewTradierMarketDataClient(historyURL, bearerToken), nil
	}
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		log.Warnf("failed to load .env file: %v", err)
	}

	config, err := loadConfig(args.ConfigPath)
	if err != nil {
		return err
	}

	bearerToken, err := utils.GetEnv("TRADIER_BEARER_TOKEN")
	if err != nil {
		return err
	}

	postgresHost, err := utils.GetEnv("POSTGRES_HOST")
	if err != nil {
		return err
	}

	postgresPort, err := utils.GetEnv("POSTGRES_PORT")
	if err != nil {
		return err
	}

	postgresUser, err := utils.GetEnv("POSTGRES_USER")
	if err != nil {
		return err
	}

	postgresPassword, err := utils.GetEnv("POSTGRES_PASSWORD")
	if err != nil {
		return err
	}

	postgresDB, err := utils.GetEnv("POSTGRES_DB")
	if err != nil {
		return err
	}

	gormDB, err := dbutils.InitPostgres(postgresHost, postgresPort, postgresUser, postgresPassword, postgresDB)
	if err != nil {
		return fmt.Errorf("failed to initialize postgres: %w", err)
	}

	database := portfoliodb.NewGormPortfolioDatabase(gormDB)

	marketData, err := newMarketDataClient(config, bearerToken)
	if err != nil {
		return err
	}

	brokerURL := fmt.Sprintf("%s/accounts", config.Tradier.BaseURL)
	recognitionClient := recognition.NewTradierRecognitionClient(brokerURL, config.Tradier.AccountID, bearerToken)

	eventpubsub.Init()

	portfolioClient := eventservices.NewPortfolioClient(recognitionClient, marketData, database)
	portfolioClient.Lookback = config.OrderLookback

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wg := &sync.WaitGroup{}

	worker := eventconsumers.NewPortfolioMonitoringWorker(wg, portfolioClient, config.PollingInterval())
	worker.Start(ctx)

	log.Infof("tracking portfolio every %s", config.PollingInterval())

	if config.StatusAddr != "" {
		router := mux.NewRouter()
		handler.SetupStatusRoutes(router, worker, database)

		server := &http.Server{
			Addr:    config.StatusAddr,
			Handler: router,
		}

		go func() {
			log.Infof("status endpoint listening on %s", config.StatusAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Errorf("status endpoint failed: %v", err)
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Errorf("failed to shut down status endpoint: %v", err)
			}
		}()
	}

	<-ctx.Done()
	log.Info("shutting down")

	wg.Wait()

	return nil
}

func main() {
	runCmd.PersistentFlags().String("config", "tracker.yaml", "Path to the tracker config file")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("error executing command: %v", err)
	}
}
