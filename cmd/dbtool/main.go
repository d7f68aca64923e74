package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restaurant-matching-service/internal/adapters/repositories"
	"restaurant-matching-service/internal/app"
	"restaurant-matching-service/internal/config"
	"restaurant-matching-service/internal/platform/db"
	"restaurant-matching-service/internal/platform/obs"
)

var seedPath string

var rootCmd = &cobra.Command{
	Use:          "dbtool",
	Short:        "Database maintenance for the restaurant matching service",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintln(os.Stderr, "No .env file found (using environment variables)")
		}
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		fmt.Println("Schema ready.")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and load menu and order data from JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := openDB()
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(cmd.Context(), conn); err != nil {
			return fmt.Errorf("schema initialization failed: %w", err)
		}
		path := seedPath
		if path == "" {
			path = config.Get("SEED_PATH", "data/seeds/menu.json")
		}
		if err := repositories.SeedFromJSON(cmd.Context(), conn, path); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		fmt.Printf("Seeded from %s.\n", path)
		return nil
	},
}

var geocodeCmd = &cobra.Command{
	Use:   "geocode [address...]",
	Short: "Resolve addresses through the cache, warming it on a miss",
	Long: `Resolve each address through the configured geocode cache and provider.
Without arguments every restaurant and active order address is resolved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		conn, err := db.Open(cfg.DB.Driver, cfg.DB.URL)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := obs.WithLogger(cmd.Context(), obs.NewLogger("dbtool"))
		resolver, closeCache, err := app.NewResolver(ctx, cfg, conn)
		defer closeCache() //nolint:errcheck
		if err != nil {
			return err
		}

		addresses := args
		if len(addresses) == 0 {
			if addresses, err = knownAddresses(ctx, conn); err != nil {
				return err
			}
		}

		var unresolved int
		for _, a := range addresses {
			coords, ok, err := resolver.Resolve(ctx, a)
			if err != nil {
				return err
			}
			if !ok {
				unresolved++
				fmt.Printf("%s\tunresolved\n", a)
				continue
			}
			fmt.Printf("%s\t%.6f,%.6f\n", a, coords.Lat, coords.Lon)
		}

		if unresolved > 0 {
			obs.Logger(ctx).Warn("some addresses were not resolved", zap.Int("count", unresolved))
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPath, "file", "", "seed JSON file (default $SEED_PATH or data/seeds/menu.json)")
	rootCmd.AddCommand(initCmd, seedCmd, geocodeCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB only needs database settings, so it skips full config validation.
func openDB() (*sql.DB, error) {
	url := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if url == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	return db.Open(config.Get("DB_DRIVER", "pgx"), url)
}

func knownAddresses(ctx context.Context, conn *sql.DB) ([]string, error) {
	source := repositories.NewSQLBoardSource(conn, repositories.SnapshotTxOptions(config.Get("DB_DRIVER", "pgx")))
	board, err := source.LoadBoard(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(board.Restaurants)+len(board.Orders))
	for _, r := range board.Restaurants {
		out = append(out, r.Address)
	}
	for _, o := range board.Orders {
		out = append(out, o.Address)
	}
	return out, nil
}
