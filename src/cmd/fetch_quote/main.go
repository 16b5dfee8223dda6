package main

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rwilkes/optrack/src/eventmodels"
	"github.com/rwilkes/optrack/src/eventservices"
	"github.com/rwilkes/optrack/src/utils"
)

type RunArgs struct {
	Symbol   string
	Provider string
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/fetch_quote/main.go --symbol SPWR_201120C20",
	Short: "Fetch the day session price range for a symbol",
	Run: func(cmd *cobra.Command, args []string) {
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			log.Fatalf("error getting symbol: %v", err)
		}

		provider, err := cmd.Flags().GetString("provider")
		if err != nil {
			log.Fatalf("error getting provider: %v", err)
		}

		if err := Run(RunArgs{Symbol: symbol, Provider: provider}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		log.Warnf("failed to load .env file: %v", err)
	}

	var client eventservices.MarketDataClient

	switch args.Provider {
	case "polygon":
		apiKey, err := utils.GetEnv("POLYGON_API_KEY")
		if err != nil {
			return err
		}

		client = eventservices.NewPolygonMarketDataClient(apiKey)

	case "tradier":
		historyURL, err := utils.GetEnv("TRADIER_QUOTES_HISTORY_URL")
		if err != nil {
			return err
		}

		bearerToken, err := utils.GetEnv("TRADIER_BEARER_TOKEN")
		if err != nil {
			return err
		}

		client = eventservices.NewTradierMarketDataClient(historyURL, bearerToken)

	default:
		return fmt.Errorf("unknown market data provider: %s", args.Provider)
	}

	symbol := eventmodels.OptionSymbol(args.Symbol)

	quote, err := client.GetOptionQuote(context.Background(), symbol)
	if err != nil {
		return err
	}

	if symbol.IsOption() {
		description, err := symbol.Description()
		if err == nil {
			fmt.Println(description)
		}
	}

	fmt.Printf("%s: low %.2f, high %.2f\n", quote.Symbol, quote.LowPrice, quote.HighPrice)
	return nil
}

func main() {
	runCmd.PersistentFlags().String("symbol", "", "Symbol in standard format, e.g. SPWR_201120C20")
	runCmd.PersistentFlags().String("provider", "tradier", "Market data provider: tradier or polygon")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("error executing command: %v", err)
	}
}
