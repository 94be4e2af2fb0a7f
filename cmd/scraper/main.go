package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/jrosariodev/dealscout/internal/browser"
	"github.com/jrosariodev/dealscout/internal/config"
	"github.com/jrosariodev/dealscout/internal/database"
	"github.com/jrosariodev/dealscout/internal/events"
	"github.com/jrosariodev/dealscout/internal/models"
	"github.com/jrosariodev/dealscout/internal/pipeline"
	"github.com/jrosariodev/dealscout/internal/scraper"
	"github.com/jrosariodev/dealscout/pkg/logger"
)

func main() {
	var (
		sitesFlag     = flag.String("sites", "", "comma-separated sites to scrape (default: all configured)")
		categoryFlag  = flag.String("category", "", "only scrape deals in this category")
		brandFlag     = flag.String("brand", "", "only keep deals from this brand")
		maxPriceFlag  = flag.Float64("max-price", 0, "only keep deals at or below this price")
		headlessFlag  = flag.Bool("headless", false, "run the browser headless")
		outputFlag    = flag.String("output", "", "snapshot file path (default: SCRAPER_SNAPSHOT_FILE)")
		listSitesFlag = flag.Bool("list-sites", false, "print registered sites and exit")
	)
	flag.Parse()

	if *listSitesFlag {
		fmt.Println(strings.Join(scraper.Names(), "\n"))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = log.With("component", "scraper-cli")

	sites := cfg.Scraper.Sites
	if *sitesFlag != "" {
		sites = strings.Split(*sitesFlag, ",")
	}
	headless := cfg.Browser.Headless || *headlessFlag
	output := cfg.Scraper.SnapshotFile
	if *outputFlag != "" {
		output = *outputFlag
	}

	filters, err := buildFilters(*categoryFlag, *brandFlag, *maxPriceFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Info("shutdown requested, finishing current fetch")
		cancel()
	}()

	opts := browser.DefaultOptions()
	opts.Headless = headless
	opts.NavigationTimeout = cfg.Scraper.NavigationTimeout
	opts.MinRequestInterval = cfg.Scraper.MinRequestInterval
	opts.MaxRetries = cfg.Scraper.MaxRetries
	opts.UseStealth = cfg.Scraper.UseStealth
	opts.ViewportWidth = cfg.Browser.ViewportWidth
	opts.ViewportHeight = cfg.Browser.ViewportHeight
	opts.Locale = cfg.Browser.Locale
	opts.TimezoneID = cfg.Browser.TimezoneID
	if len(cfg.Browser.UserAgents) > 0 {
		opts.UserAgents = cfg.Browser.UserAgents
	}
	if cfg.Proxy.Configured() {
		opts.Proxy = &browser.ProxySettings{
			Host:     cfg.Proxy.Host,
			Port:     cfg.Proxy.Port,
			Username: cfg.Proxy.Username,
			Password: cfg.Proxy.Password,
		}
	}

	manager := browser.NewManager(opts)
	defer manager.Close()
	fetcher := scraper.NewManagerFetcher(manager)

	results := runSites(ctx, log, fetcher, sites, filters)
	if len(results) == 0 {
		log.Error("no site produced any deals")
		os.Exit(1)
	}

	store := pipeline.NewSnapshotStore(output)
	if err := store.Save(results); err != nil {
		log.Error("failed to write snapshot", "file", output, "error", err)
		os.Exit(1)
	}
	log.Info("snapshot written", "file", output)

	persistResults(ctx, cfg, log, results)
}

// runSites scrapes each site in turn. One site failing does not abort the
// run; its absence from the results is the signal.
func runSites(ctx context.Context, log *slog.Logger, fetcher scraper.Fetcher, sites []string, filters models.Filters) map[string][]*models.Deal {
	results := make(map[string][]*models.Deal)
	for _, site := range sites {
		site = strings.TrimSpace(site)
		if ctx.Err() != nil {
			log.Warn("run cancelled", "remaining_site", site)
			break
		}

		s, err := scraper.New(site, fetcher)
		if err != nil {
			log.Error("unknown site, skipping", "site", site, "error", err)
			continue
		}
		if !filters.SupportedBy(s.SupportedFilters()) {
			log.Warn("skipping site", "site", site, "error", scraper.ErrUnsupportedFilters)
			continue
		}

		log.Info("scraping site", "site", site)
		deals, err := s.Scrape(ctx, filters)
		if err != nil {
			log.Error("site scrape failed", "site", site, "error", err)
			continue
		}

		deals = pipeline.Clean(deals)
		log.Info("site scraped", "site", site, "deals", len(deals))
		if len(deals) > 0 {
			results[site] = deals
		}
	}
	return results
}

// persistResults pushes the run into Postgres and Redis when configured.
// Both sinks are optional; the snapshot file is the source of truth.
func persistResults(ctx context.Context, cfg *config.Config, log *slog.Logger, results map[string][]*models.Deal) {
	if cfg.Database.Enabled {
		db, err := database.New(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.DBName,
			MaxConns: cfg.Database.MaxConns,
		})
		if err != nil {
			log.Error("failed to connect to database", "error", err)
		} else {
			defer db.Close()
			for site, deals := range results {
				if err := db.UpsertDeals(ctx, site, deals); err != nil {
					log.Error("failed to persist deals", "site", site, "error", err)
				}
			}
		}
	}

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		publisher := events.NewPublisher(redisClient, log)
		defer publisher.Close()

		for site, deals := range results {
			if _, err := publisher.PublishDeals(ctx, site, deals); err != nil {
				log.Error("failed to publish deals", "site", site, "error", err)
			}
		}
	}
}

func buildFilters(category, brand string, maxPrice float64) (models.Filters, error) {
	var filters models.Filters
	if category != "" {
		c, ok := models.CategoryFromString(category)
		if !ok {
			return filters, fmt.Errorf("unknown category %q", category)
		}
		filters.Categories = []models.Category{c}
	}
	if brand != "" {
		filters.Brands = []string{brand}
	}
	if maxPrice > 0 {
		filters.PriceRange = &models.PriceRange{Max: maxPrice}
	}
	return filters, nil
}
