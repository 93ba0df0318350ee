package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/bazi-api/internal/bazi"
	"github.com/zapponejosh/bazi-api/internal/calendar"
	"github.com/zapponejosh/bazi-api/internal/database"
	"github.com/zapponejosh/bazi-api/internal/solartime"
)

type chartFlags struct {
	profileID int64
	dbPath    string

	name      string
	gender    string
	birth     string
	timeZone  string
	dst       bool
	latitude  float64
	longitude float64

	at             string
	resolveTenGods bool
}

func chartCmd(g *globals) *cobra.Command {
	var f chartFlags

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Compute a four pillars chart",
		Long: `Compute a four pillars chart from the birth flags, or from a stored
profile with --profile.`,
		Example: `  bazi chart --birth 2000-01-01T08:30 --tz Asia/Shanghai --lon 116.4074 --gender male
  bazi chart --profile 3 --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := f.profile(cmd.Context(), g)
			if err != nil {
				return err
			}

			now := time.Now()
			if f.at != "" {
				civil, err := calendar.ParseDateTime(f.at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				zone, err := solartime.LoadZone(p.TimeZone)
				if err != nil {
					return err
				}
				now = time.Date(civil.Year(), civil.Month(), civil.Day(),
					civil.Hour(), civil.Minute(), civil.Second(), 0, zone.Location)
			}

			opts := bazi.Options{ResolveTenGods: f.resolveTenGods || g.cfg.ResolveTenGods}
			chart, err := bazi.Calculate(p, now, opts)
			if err != nil {
				return err
			}
			g.log.Debug("chart calculated",
				"nickname", p.Nickname,
				"solar_time", chart.SolarTime.Format(time.DateTime),
				"correction_minutes", chart.Correction.Minutes,
			)
			return g.render(cmd.OutOrStdout(), chart)
		},
	}

	fl := cmd.Flags()
	fl.Int64Var(&f.profileID, "profile", 0, "ID of a stored profile to chart")
	fl.StringVar(&f.dbPath, "db", "", "profile database (default DATABASE_PATH)")
	fl.StringVar(&f.name, "name", "chart", "nickname recorded on the chart")
	fl.StringVar(&f.gender, "gender", string(bazi.GenderMale), "male or female")
	fl.StringVar(&f.birth, "birth", "", "civil birth time, YYYY-MM-DDTHH:MM[:SS]")
	fl.StringVar(&f.timeZone, "tz", "", "IANA zone or UTC offset of the birth time (default DEFAULT_TIMEZONE)")
	fl.BoolVar(&f.dst, "dst", false, "the birth time was observed under daylight saving")
	fl.Float64Var(&f.latitude, "lat", 0, "birth latitude in degrees")
	fl.Float64Var(&f.longitude, "lon", 0, "birth longitude in degrees, east positive")
	fl.StringVar(&f.at, "at", "", "project cycles against this civil time instead of now")
	fl.BoolVar(&f.resolveTenGods, "resolve-ten-gods", false, "relate every ten god to the day master")
	cmd.MarkFlagsMutuallyExclusive("profile", "birth")
	cmd.MarkFlagsOneRequired("profile", "birth")
	return cmd
}

// profile builds the chart subject from the flags or the profile store.
func (f *chartFlags) profile(ctx context.Context, g *globals) (bazi.Profile, error) {
	if f.profileID != 0 {
		return f.storedProfile(ctx, g)
	}

	birth, err := calendar.ParseDateTime(f.birth)
	if err != nil {
		return bazi.Profile{}, fmt.Errorf("--birth: %w", err)
	}
	tz := f.timeZone
	if tz == "" {
		tz = g.cfg.DefaultTimeZone
	}

	p := bazi.Profile{
		Nickname:         f.name,
		Gender:           bazi.Gender(f.gender),
		Category:         bazi.CategorySelf,
		BirthDateTime:    birth,
		TimeZone:         tz,
		IsDaylightSaving: f.dst,
		BirthLatitude:    f.latitude,
		BirthLongitude:   f.longitude,
	}
	if err := p.Validate(); err != nil {
		return bazi.Profile{}, err
	}
	return p, nil
}

func (f *chartFlags) storedProfile(ctx context.Context, g *globals) (bazi.Profile, error) {
	path := f.dbPath
	if path == "" {
		path = g.cfg.DatabasePath
	}

	db, err := database.Open(database.DefaultConfig(path), g.log)
	if err != nil {
		return bazi.Profile{}, err
	}
	defer db.Close()

	p, err := db.GetProfile(ctx, f.profileID)
	if err != nil {
		if database.IsNotFound(err) {
			return bazi.Profile{}, fmt.Errorf("profile %d not found in %s", f.profileID, path)
		}
		return bazi.Profile{}, err
	}
	return *p, nil
}
