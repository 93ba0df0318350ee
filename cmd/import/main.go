// Command import loads birth profiles from a YAML or JSON file into the
// SQLite database.
//
// Usage:
//
//	go run ./cmd/import -file data/profiles.yaml -db data/bazi.db
//
// The file holds a top-level "profiles" list:
//
//	profiles:
//	  - nickname: Ada
//	    gender: female
//	    category: family
//	    birth_date_time: 1990-06-15T23:50
//	    time_zone: Asia/Shanghai
//	    birth_longitude: 121.4737
//
// This tool:
// 1. Parses and validates every profile, reporting all problems at once
// 2. Creates/opens the SQLite database and runs migrations
// 3. Imports all profiles in a single transaction
//
// Profiles already present (same nickname, birth time and timezone) are
// skipped, so the import can be rerun safely.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloudeng.io/errors"
	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/bazi-api/internal/bazi"
	"github.com/zapponejosh/bazi-api/internal/database"
	"github.com/zapponejosh/bazi-api/internal/logger"
)

// importFile is the layout of the input file. JSON input parses too, as
// JSON is a subset of YAML.
type importFile struct {
	DefaultTimeZone string         `yaml:"default_timezone"`
	Profiles        []bazi.Profile `yaml:"profiles"`
}

func main() {
	// Parse command line flags
	filePath := flag.String("file", "data/profiles.yaml", "Path to YAML or JSON profiles file")
	dbPath := flag.String("db", "data/bazi.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logLevel := "info"
	if *verbose {
		logLevel = "debug"
	}
	log := logger.New(os.Stdout, logLevel, "text")

	if err := run(*filePath, *dbPath, log); err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("import complete")
}

func run(filePath, dbPath string, log *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read, parse and validate
	// =========================================================================
	log.Info("reading profiles file", slog.String("path", filePath))

	profiles, err := readProfiles(filePath)
	if err != nil {
		return err
	}

	log.Info("parsed profiles", slog.Int("profiles", len(profiles)))

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Import in a transaction
	// =========================================================================
	stats, err := db.ImportProfiles(ctx, profiles)
	if err != nil {
		return fmt.Errorf("import profiles: %w", err)
	}

	counts, err := db.CountProfiles(ctx)
	if err != nil {
		return fmt.Errorf("count profiles: %w", err)
	}

	attrs := []any{
		slog.Int("created", stats.Created),
		slog.Int("duplicates", stats.Duplicates),
		slog.Duration("duration", time.Since(startTime)),
	}
	for _, c := range bazi.ValidCategories() {
		attrs = append(attrs, slog.Int("total_"+string(c), counts[c]))
	}
	log.Info("import summary", attrs...)

	return nil
}

// readProfiles parses the file, fills defaults and validates every profile.
func readProfiles(path string) ([]bazi.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var f importFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("%s: no profiles found", path)
	}

	errs := &errors.M{}
	for i := range f.Profiles {
		p := &f.Profiles[i]
		if p.TimeZone == "" {
			p.TimeZone = f.DefaultTimeZone
		}
		if p.Category == "" {
			p.Category = bazi.CategorySelf
		}
		if err := p.Validate(); err != nil {
			errs.Append(fmt.Errorf("profile %d (%q): %w", i, p.Nickname, err))
		}
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return f.Profiles, nil
}
