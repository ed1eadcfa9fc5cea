package main

import (
	"context"
	"detour-route-service/internal/adapters/cache"
	"detour-route-service/internal/adapters/repositories"
	"detour-route-service/internal/adapters/routing"
	"detour-route-service/internal/config"
	"detour-route-service/internal/domain"
	"detour-route-service/internal/platform/db"
	"detour-route-service/internal/ports"
	"detour-route-service/internal/services"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	origin      string
	destination string
	arriveBy    string
	catalogPath string
	osrmURL     string
	cachePath   string
	removeStops []string
	showAll     bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Plan a route with detour stops that still arrives on time",
	Long: `Plan a driving route from an origin to a destination and fill the slack
before the arrival deadline with catalog stops, cheapest detour first.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPlan,
}

func init() {
	rootCmd.Flags().StringVarP(&origin, "origin", "o", "", "Origin address or \"lat,lng\"")
	rootCmd.Flags().StringVarP(&destination, "destination", "d", "", "Destination address or \"lat,lng\"")
	rootCmd.Flags().StringVarP(&arriveBy, "arrive", "a", "", "Arrival deadline, HH:MM")
	rootCmd.Flags().StringVar(&catalogPath, "catalog", config.Get("CATALOG_SEED_PATH", "data/seeds/catalog.json"), "Stop catalog JSON file")
	rootCmd.Flags().StringVar(&osrmURL, "osrm", config.Get("OSRM_BASE_URL", routing.DefaultOSRMBaseURL), "OSRM server base URL")
	rootCmd.Flags().StringVar(&cachePath, "cache", "", "SQLite file for geocode and route caches (disabled when empty)")
	rootCmd.Flags().StringSliceVarP(&removeStops, "remove", "r", nil, "Stop labels to remove after planning, in order")
	rootCmd.Flags().BoolVar(&showAll, "show-all", false, "List every catalog stop as a marker")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show operation timing logs")

	_ = rootCmd.MarkFlagRequired("origin")
	_ = rootCmd.MarkFlagRequired("destination")
	_ = rootCmd.MarkFlagRequired("arrive")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	if !verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	catalog, err := repositories.LoadCatalogJSON(catalogPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client, closeClient, err := newClient(cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	planner := services.NewPlanner(client, catalog, services.PlannerOptions{
		CeilingMinutes: cfg.DetourCeilingMinutes,
		Concurrency:    cfg.DetourConcurrency,
		Location:       cfg.Location,
	})

	session, err := planner.Plan(ctx, services.PlanRequest{
		Origin:      origin,
		Destination: destination,
		ArriveBy:    arriveBy,
		ShowAll:     showAll,
	}, printProgress)
	if err != nil {
		return err
	}
	printSession(planner, session)

	for _, label := range removeStops {
		err := planner.RemoveStop(ctx, session, label)
		if err != nil && !errors.Is(err, domain.ErrReoptimizationFailure) {
			return fmt.Errorf("remove %q: %w", label, err)
		}
		fmt.Println()
		headerColor.Printf("After removing %q\n", label)
		printSession(planner, session)
	}

	return nil
}

// newClient builds the OSRM client, with the ORS geocoder when ORS_API_KEY is
// set and SQLite caches when --cache is given.
func newClient(cfg config.Config) (ports.RoutingClient, func(), error) {
	var (
		geocodeCache ports.GeocodeCache
		routeCache   ports.RouteCache
		closeFn      = func() {}
	)

	if cachePath != "" {
		conn, err := db.OpenSQLite(cachePath)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		geocodeCache = cache.NewSqliteGeocodeCache(conn)
		routeCache = cache.NewSQLRouteCache(conn, db.SQLite, cfg.RouteCacheTTL)
		closeFn = func() { _ = conn.Close() }
	}

	var geocoder ports.Geocoder
	if cfg.ORSAPIKey != "" {
		g, err := routing.NewORSGeocoder(cfg.ORSAPIKey, geocodeCache)
		if err != nil {
			closeFn()
			return nil, nil, err
		}
		geocoder = g
	}

	client, err := routing.NewOSRMClient(osrmURL, geocoder, routeCache)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return client, closeFn, nil
}
