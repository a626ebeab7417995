// cmd/storectl/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/storepulse/storepulse/internal/cache"
	"github.com/storepulse/storepulse/internal/catalog"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/domain"
	"github.com/storepulse/storepulse/internal/report"
	"github.com/storepulse/storepulse/internal/repository/postgres"
	"github.com/storepulse/storepulse/internal/search"
	"github.com/storepulse/storepulse/internal/service"
	"github.com/storepulse/storepulse/internal/storage"
	"github.com/storepulse/storepulse/pkg/logger"
)

func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db-url",
			Usage:   "Database connection string; CSV files are used when empty",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.StringFlag{
			Name:    "products",
			Usage:   "Products CSV file",
			Value:   "./data/products.csv",
			EnvVars: []string{"DATA_PRODUCTS_FILE"},
		},
		&cli.StringFlag{
			Name:    "transactions",
			Usage:   "Transactions CSV file",
			Value:   "./data/transactions.csv",
			EnvVars: []string{"DATA_TRANSACTIONS_FILE"},
		},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	cfg := config.Load()
	logger.SetLevel("info")

	app := &cli.App{
		Name:  "storectl",
		Usage: "Inventory search, stock alerts and financial reports from the command line",
		Commands: []*cli.Command{
			searchCommand(cfg),
			alertsCommand(cfg),
			reportCommand(cfg),
			archiveCommand(cfg),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Run one catalog search",
		Flags: append(dataFlags(),
			&cli.StringFlag{Name: "q", Usage: "Search keyword", Required: true},
			&cli.StringFlag{Name: "field", Usage: "Restrict matching to one field"},
			&cli.StringFlag{Name: "category", Usage: "Filter by category"},
			&cli.BoolFlag{Name: "fuzzy", Usage: "Enable fuzzy matching", Value: true},
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "page-size", Value: 0},
		),
		Action: func(c *cli.Context) error {
			store, err := buildStore(c, cfg)
			if err != nil {
				return err
			}
			engine := search.NewEngine(search.NewScorer(cfg.Search.Scorer), search.Options{
				FuzzyThreshold:    cfg.Search.FuzzyThreshold,
				PageSize:          cfg.Search.PageSize,
				AutocompleteLimit: cfg.Search.AutocompleteLimit,
			})
			svc := service.NewSearchService(store, engine, cache.NewNoopSearchCache())

			page, err := svc.Search(c.Context, search.Query{
				Keyword:  c.String("q"),
				Field:    c.String("field"),
				Category: c.String("category"),
				Fuzzy:    c.Bool("fuzzy"),
				Page:     c.Int("page"),
				PageSize: c.Int("page-size"),
			})
			if err != nil {
				return err
			}

			fmt.Printf("%d results\n", page.Total)
			for _, r := range page.Results {
				fmt.Printf("  [%d] %s %s (%s) %s match on %s, stock %d %s\n",
					r.Score, r.ProductID, r.Name, r.Category, r.MatchType, r.MatchedField, r.StockQuantity, r.Status)
			}
			return nil
		},
	}
}

func alertsCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "alerts",
		Usage: "Generate stock alerts",
		Flags: append(dataFlags(),
			&cli.IntFlag{Name: "reorder-buffer", Usage: "Extra units above the threshold gap"},
			&cli.IntFlag{Name: "lookback-days", Usage: "Demand lookback window override"},
			&cli.BoolFlag{Name: "suggest", Usage: "Attach replenishment suggestions", Value: true},
			&cli.BoolFlag{Name: "export", Usage: "Write the alert report CSV to the report directory"},
		),
		Action: func(c *cli.Context) error {
			store, err := buildStore(c, cfg)
			if err != nil {
				return err
			}
			loc, err := reportLocation(cfg)
			if err != nil {
				return err
			}
			svc := service.NewAlertService(store, cfg.Forecast, loc)

			alerts, err := svc.GenerateAlerts(c.Context, service.AlertParams{
				ReorderBuffer: c.Int("reorder-buffer"),
				LookbackDays:  c.Int("lookback-days"),
				SuggestOrders: c.Bool("suggest"),
			})
			if err != nil {
				return err
			}
			fmt.Print(report.FormatAlertsText(alerts))
			if c.Bool("export") {
				path, err := report.WriteAlertsFile(cfg.Report.Dir, alerts)
				if err != nil {
					return err
				}
				fmt.Printf("\nExported to %s\n", path)
			}
			return nil
		},
	}
}

func reportCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Compute the financial summary, optionally alongside stock alerts",
		Flags: append(dataFlags(),
			&cli.IntFlag{Name: "month", Usage: "Report month (1-12)"},
			&cli.IntFlag{Name: "year", Usage: "Report year"},
			&cli.IntFlag{Name: "top-k", Usage: "List length for top sellers and least purchased"},
			&cli.BoolFlag{Name: "include-zero-sales", Usage: "Include unsold catalog products in least purchased"},
			&cli.StringFlag{Name: "currency", Usage: "Currency label"},
			&cli.BoolFlag{Name: "export", Usage: "Write the summary CSV to the report directory"},
			&cli.BoolFlag{Name: "upload", Usage: "Upload the exported CSV to object storage"},
			&cli.BoolFlag{Name: "with-alerts", Usage: "Also generate stock alerts"},
		),
		Action: func(c *cli.Context) error {
			store, err := buildStore(c, cfg)
			if err != nil {
				return err
			}
			loc, err := reportLocation(cfg)
			if err != nil {
				return err
			}

			var uploader storage.ObjectStorage
			if c.Bool("upload") {
				client, err := buildObjectStorage(cfg)
				if err != nil {
					return err
				}
				uploader = client
			}

			reportSvc := service.NewReportService(store, cfg.Report, loc, uploader)
			alertSvc := service.NewAlertService(store, cfg.Forecast, loc)

			var (
				summary domain.FinancialSummary
				path    string
				alerts  domain.AlertReport
			)
			g, ctx := errgroup.WithContext(c.Context)
			g.Go(func() error {
				var err error
				summary, path, err = reportSvc.Financial(ctx, service.ReportParams{
					Month:            c.Int("month"),
					Year:             c.Int("year"),
					TopK:             c.Int("top-k"),
					IncludeZeroSales: c.Bool("include-zero-sales"),
					Currency:         c.String("currency"),
					Export:           c.Bool("export"),
					Upload:           c.Bool("upload"),
				})
				return err
			})
			if c.Bool("with-alerts") {
				g.Go(func() error {
					var err error
					alerts, err = alertSvc.GenerateAlerts(ctx, service.AlertParams{SuggestOrders: true})
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			fmt.Print(report.FormatText(summary))
			if path != "" {
				fmt.Printf("\nExported to %s\n", path)
			}
			if c.Bool("with-alerts") {
				fmt.Println()
				fmt.Print(report.FormatAlertsText(alerts))
			}
			return nil
		},
	}
}

func archiveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "Browse report exports uploaded to object storage",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List uploaded report files",
				Action: func(c *cli.Context) error {
					svc, err := buildArchiveService(cfg)
					if err != nil {
						return err
					}
					objects, err := svc.ListExports(c.Context)
					if err != nil {
						return err
					}
					if len(objects) == 0 {
						fmt.Println("no uploaded reports")
						return nil
					}
					for _, o := range objects {
						fmt.Printf("%s\t%d bytes\n", o.Key, o.Size)
					}
					return nil
				},
			},
			{
				Name:      "fetch",
				Usage:     "Download one uploaded report file",
				ArgsUsage: "<key>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "Destination directory", Value: "./reports"},
				},
				Action: func(c *cli.Context) error {
					key := c.Args().First()
					if key == "" {
						return fmt.Errorf("object key is required")
					}
					svc, err := buildArchiveService(cfg)
					if err != nil {
						return err
					}
					path, err := svc.FetchExport(c.Context, key, c.String("out"))
					if err != nil {
						return err
					}
					fmt.Printf("Downloaded to %s\n", path)
					return nil
				},
			},
		},
	}
}

func buildArchiveService(cfg *config.Config) (*service.ReportService, error) {
	client, err := buildObjectStorage(cfg)
	if err != nil {
		return nil, err
	}
	loc, err := reportLocation(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewReportService(catalog.NewMemoryStore(), cfg.Report, loc, client), nil
}

func buildObjectStorage(cfg *config.Config) (storage.ObjectStorage, error) {
	return storage.NewMinioClient(storage.MinioConfig{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		UseSSL:    cfg.Storage.UseSSL,
	})
}

func buildStore(c *cli.Context, cfg *config.Config) (catalog.Store, error) {
	if dbURL := c.String("db-url"); dbURL != "" {
		db, err := postgres.NewDBFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		return postgres.NewCatalogRepository(db), nil
	}

	loc, err := reportLocation(cfg)
	if err != nil {
		return nil, err
	}
	products, err := catalog.LoadProductsCSV(c.String("products"))
	if err != nil {
		return nil, err
	}
	transactions, err := catalog.LoadTransactionsCSV(c.String("transactions"), loc)
	if err != nil {
		return nil, err
	}
	store := catalog.NewMemoryStore()
	store.SetProducts(products)
	store.SetTransactions(transactions)
	return store, nil
}

func reportLocation(cfg *config.Config) (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid reporting timezone %q: %w", cfg.Report.Timezone, err)
	}
	return loc, nil
}
