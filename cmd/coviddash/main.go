package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	d "github.com/invertedv/coviddash"
	"github.com/invertedv/coviddash/charts"
	"github.com/invertedv/coviddash/covid"
	"github.com/invertedv/coviddash/server"
	"github.com/invertedv/coviddash/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const fetchTimeout = 60 * time.Second

var (
	// where the raw table comes from and where the artifacts go
	sourceURL = covid.SourceURL
	outDir    = "."

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "coviddash",
	Short: "Interactive COVID-19 dashboard",
	Long: `coviddash downloads the country-wise COVID-19 table, aggregates it by country and
WHO region, writes the cleaned table to cleaned_covid19_data.csv and serves a dashboard
of six charts on ` + server.DefaultAddr + `.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			return nil
		}

		var err error
		if logger, err = zap.NewProductionConfig().Build(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runServe,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the cleaned table and the six default charts as HTML files",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := load(ctx)
	if err != nil {
		return err
	}

	srv, err := server.New(ds, server.WithLogger(logger))
	if err != nil {
		return err
	}

	return srv.Run(ctx)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ds, err := load(ctx)
	if err != nil {
		return err
	}

	df, err := ds.Filter(ds.DefaultSelection())
	if err != nil {
		return err
	}

	figs, err := charts.Build(df)
	if err != nil {
		return err
	}

	named := figs.Named()
	for _, name := range charts.Names() {
		fileName := filepath.Join(outDir, name+".html")
		if err := named[name].Save(fileName); err != nil {
			return err
		}

		logger.Info("chart written", zap.String("file", fileName))
	}

	return nil
}

// load fetches, cleans and aggregates the table, then writes the CSV artifact and the sqlite snapshot.
func load(ctx context.Context) (*covid.Dataset, error) {
	client := &http.Client{Timeout: fetchTimeout}

	start := time.Now()
	raw, err := covid.Fetch(ctx, client, sourceURL)
	if err != nil {
		return nil, err
	}

	ds, err := covid.NewDataset(raw)
	if err != nil {
		return nil, err
	}

	logger.Info("data loaded",
		zap.String("source", sourceURL),
		zap.Int("raw rows", raw.RowCount()),
		zap.Int("aggregated rows", ds.Rows()),
		zap.Duration("elapsed", time.Since(start)))

	agg := ds.Aggregated()
	csvFile := filepath.Join(outDir, covid.OutputCSV)
	if err := covid.SaveCSV(agg, csvFile); err != nil {
		return nil, err
	}

	if err := snapshot(agg, filepath.Join(outDir, covid.OutputDB)); err != nil {
		return nil, err
	}

	logger.Info("artifacts written", zap.String("csv", csvFile), zap.String("db", covid.OutputDB))

	return ds, nil
}

func snapshot(agg *d.DF, dbFile string) error {
	dialect, err := store.Open(store.SQLite(dbFile))
	if err != nil {
		return err
	}
	defer func() { _ = dialect.Close() }()

	return covid.SaveSnapshot(dialect, agg)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}
