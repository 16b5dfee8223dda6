package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rwilkes/optrack/src/dbutils"
	"github.com/rwilkes/optrack/src/eventmodels"
	"github.com/rwilkes/optrack/src/portfoliodb"
	"github.com/rwilkes/optrack/src/utils"
)

type RunArgs struct {
	OutDir string
}

var runCmd = &cobra.Command{
	Use:   "go run src/cmd/export_deltas/main.go --outDir exports",
	Short: "Export the position delta audit trail to CSV, or render it to the console",
	Run: func(cmd *cobra.Command, args []string) {
		outDir, err := cmd.Flags().GetString("outDir")
		if err != nil {
			log.Fatalf("error getting outDir: %v", err)
		}

		if err := Run(RunArgs{OutDir: outDir}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(); err != nil {
		log.Warnf("failed to load .env file: %v", err)
	}

	deltas, err := readDeltas()
	if err != nil {
		return err
	}

	if len(deltas) == 0 {
		fmt.Println("No position deltas recorded yet.")
		return nil
	}

	if args.OutDir == "" {
		renderTable(deltas)
		return nil
	}

	outFile, err := exportToCsv(args.OutDir, deltas)
	if err != nil {
		return err
	}

	fmt.Println("CSV file written to:", outFile)
	return nil
}

func readDeltas() ([]*eventmodels.PositionDelta, error) {
	postgresHost, err := utils.GetEnv("POSTGRES_HOST")
	if err != nil {
		return nil, err
	}

	postgresPort, err := utils.GetEnv("POSTGRES_PORT")
	if err != nil {
		return nil, err
	}

	postgresUser, err := utils.GetEnv("POSTGRES_USER")
	if err != nil {
		return nil, err
	}

	postgresPassword, err := utils.GetEnv("POSTGRES_PASSWORD")
	if err != nil {
		return nil, err
	}

	postgresDB, err := utils.GetEnv("POSTGRES_DB")
	if err != nil {
		return nil, err
	}

	gormDB, err := dbutils.InitPostgres(postgresHost, postgresPort, postgresUser, postgresPassword, postgresDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	return portfoliodb.NewGormPortfolioDatabase(gormDB).ReadDeltas()
}

func exportToCsv(outDir string, deltas []*eventmodels.PositionDelta) (string, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	outFile := filepath.Join(outDir, fmt.Sprintf("position_deltas-%s.csv", time.Now().Format("2006-01-02")))

	file, err := os.Create(outFile)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}

	defer file.Close()

	rows := make([]*eventmodels.PositionDeltaCSVDTO, 0, len(deltas))
	for _, delta := range deltas {
		rows = append(rows, eventmodels.NewPositionDeltaCSVDTO(delta))
	}

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return "", fmt.Errorf("error marshalling file: %w", err)
	}

	log.Infof("Exported %d deltas to %s", len(rows), outFile)
	return outFile, nil
}

func renderTable(deltas []*eventmodels.PositionDelta) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Computed At", "Type", "Symbol", "Quantity", "Price", "Percent"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetColumnSeparator("")

	for _, delta := range deltas {
		percent := "-"
		if delta.DeltaType != eventmodels.DeltaTypeNew {
			percent = fmt.Sprintf("%.0f%%", delta.Percent*100)
		}

		table.Append([]string{
			delta.ComputedAt.Format("2006-01-02 15:04:05"),
			string(delta.DeltaType),
			string(delta.Symbol),
			fmt.Sprintf("%.0f", delta.Quantity),
			fmt.Sprintf("$%.2f", delta.Price),
			percent,
		})
	}

	table.Render()
}

func main() {
	runCmd.PersistentFlags().String("outDir", "", "Directory to write the CSV export; prints a table when omitted")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("error executing command: %v", err)
	}
}
