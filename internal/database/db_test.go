package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/zapponejosh/bazi-api/internal/bazi"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(DefaultConfig(":memory:"), logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if _, err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func sampleProfile(nickname string) *bazi.Profile {
	return &bazi.Profile{
		Nickname:       nickname,
		Gender:         bazi.GenderFemale,
		Category:       bazi.CategoryFamily,
		BirthDateTime:  time.Date(1990, 6, 15, 23, 50, 0, 0, time.UTC),
		TimeZone:       "Asia/Shanghai",
		BirthPlace:     "Shanghai",
		BirthLatitude:  31.2304,
		BirthLongitude: 121.4737,
	}
}

// seedProfiles inserts profiles in order, so the last one is the newest.
func seedProfiles(t *testing.T, db *DB, profiles ...*bazi.Profile) {
	t.Helper()
	for _, p := range profiles {
		if err := db.CreateProfile(context.Background(), p); err != nil {
			t.Fatalf("create profile %q: %v", p.Nickname, err)
		}
	}
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

// =============================================================================
// Connection and Migration Tests
// =============================================================================

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "bazi.db")

	db, err := Open(DefaultConfig(path), nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestHealth(t *testing.T) {
	db := testDB(t)
	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)

	applied, err := db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if applied != 0 {
		t.Errorf("second Migrate() applied %d migrations, want 0", applied)
	}

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM schema_migrations"); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != len(migrationsSQL) {
		t.Errorf("schema_migrations has %d rows, want %d", count, len(migrationsSQL))
	}
}

func TestWithTx_RollsBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	wantErr := errors.New("abort")

	err := db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO profiles (nickname, gender, birth_date_time, time_zone) VALUES ('x', 'male', '2000-01-01T00:00:00', 'UTC')`,
		); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("WithTx() error = %v, want %v", err, wantErr)
	}

	profiles, err := db.ListProfiles(ctx, ProfileFilter{})
	if err != nil {
		t.Fatalf("ListProfiles() error = %v", err)
	}
	if len(profiles) != 0 {
		t.Errorf("rolled back insert is visible: %d profiles", len(profiles))
	}
}

// =============================================================================
// Profile Tests
// =============================================================================

func TestCreateProfile(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := sampleProfile("Mother")
	p.IsDaylightSaving = true
	p.CurrentPlace = strPtr("Hangzhou")
	p.CurrentLatitude = floatPtr(30.2741)
	p.CurrentLongitude = floatPtr(120.1551)

	if err := db.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}
	if p.ID == 0 {
		t.Fatal("CreateProfile() did not set ID")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Error("CreateProfile() did not set timestamps")
	}

	got, err := db.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}

	if got.Nickname != "Mother" || got.Gender != bazi.GenderFemale || got.Category != bazi.CategoryFamily {
		t.Errorf("GetProfile() = %+v", got)
	}
	if !got.BirthDateTime.Equal(p.BirthDateTime) {
		t.Errorf("BirthDateTime = %v, want %v", got.BirthDateTime, p.BirthDateTime)
	}
	if got.TimeZone != "Asia/Shanghai" || !got.IsDaylightSaving {
		t.Errorf("TimeZone/IsDaylightSaving = %q/%v", got.TimeZone, got.IsDaylightSaving)
	}
	if got.BirthLongitude != 121.4737 || got.BirthLatitude != 31.2304 {
		t.Errorf("birth coordinates = %v, %v", got.BirthLatitude, got.BirthLongitude)
	}
	if got.CurrentPlace == nil || *got.CurrentPlace != "Hangzhou" {
		t.Errorf("CurrentPlace = %v, want Hangzhou", got.CurrentPlace)
	}
	if got.CurrentLongitude == nil || *got.CurrentLongitude != 120.1551 {
		t.Errorf("CurrentLongitude = %v, want 120.1551", got.CurrentLongitude)
	}
	if got.IsLastSelected {
		t.Error("new profile should not be selected")
	}
}

func TestCreateProfile_DefaultsCategory(t *testing.T) {
	db := testDB(t)

	p := sampleProfile("Me")
	p.Category = ""
	p.CurrentPlace = nil

	if err := db.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("CreateProfile() error = %v", err)
	}
	if p.Category != bazi.CategorySelf {
		t.Errorf("Category = %q, want %q", p.Category, bazi.CategorySelf)
	}
	if p.CurrentPlace != nil || p.CurrentLatitude != nil {
		t.Error("optional current location should stay nil")
	}
}

func TestCreateProfile_Duplicate(t *testing.T) {
	db := testDB(t)
	seedProfiles(t, db, sampleProfile("Twin"))

	err := db.CreateProfile(context.Background(), sampleProfile("Twin"))
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("CreateProfile() duplicate error = %v, want ErrDuplicate", err)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.GetProfile(context.Background(), 999)
	if !IsNotFound(err) {
		t.Errorf("GetProfile() error = %v, want not found", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := sampleProfile("Friend")
	seedProfiles(t, db, p)
	created := p.CreatedAt

	p.Nickname = "Old Friend"
	p.Category = bazi.CategoryFriend
	p.BirthDateTime = time.Date(1991, 1, 2, 3, 4, 0, 0, time.UTC)
	p.CurrentPlace = strPtr("Chengdu")

	if err := db.UpdateProfile(ctx, p); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}

	got, err := db.GetProfile(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if got.Nickname != "Old Friend" || got.Category != bazi.CategoryFriend {
		t.Errorf("UpdateProfile() did not persist fields: %+v", got)
	}
	if got.BirthDateTime.Year() != 1991 {
		t.Errorf("BirthDateTime = %v, want 1991", got.BirthDateTime)
	}
	if got.CurrentPlace == nil || *got.CurrentPlace != "Chengdu" {
		t.Errorf("CurrentPlace = %v, want Chengdu", got.CurrentPlace)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt changed: %v -> %v", created, got.CreatedAt)
	}
	if got.UpdatedAt.Before(created) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", got.UpdatedAt, created)
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	db := testDB(t)

	p := sampleProfile("Ghost")
	p.ID = 42
	if err := db.UpdateProfile(context.Background(), p); !IsNotFound(err) {
		t.Errorf("UpdateProfile() error = %v, want not found", err)
	}
}

func TestDeleteProfile(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := sampleProfile("Temp")
	seedProfiles(t, db, p)

	if err := db.DeleteProfile(ctx, p.ID); err != nil {
		t.Fatalf("DeleteProfile() error = %v", err)
	}
	if _, err := db.GetProfile(ctx, p.ID); !IsNotFound(err) {
		t.Errorf("GetProfile() after delete error = %v, want not found", err)
	}
	if err := db.DeleteProfile(ctx, p.ID); !IsNotFound(err) {
		t.Errorf("second DeleteProfile() error = %v, want not found", err)
	}
}

func TestListProfiles(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	alice := sampleProfile("Alice")
	alice.Category = bazi.CategoryFriend
	bob := sampleProfile("Bob")
	bob.Category = bazi.CategoryFamily
	alan := sampleProfile("alan_100%")
	alan.Category = bazi.CategoryFriend
	seedProfiles(t, db, alice, bob, alan)

	tests := []struct {
		name   string
		filter ProfileFilter
		want   []string
	}{
		{"all newest first", ProfileFilter{}, []string{"alan_100%", "Bob", "Alice"}},
		{"by category", ProfileFilter{Category: bazi.CategoryFriend}, []string{"alan_100%", "Alice"}},
		{"search is case-insensitive", ProfileFilter{Search: "AL"}, []string{"alan_100%", "Alice"}},
		{"search matches wildcards literally", ProfileFilter{Search: "_100%"}, []string{"alan_100%"}},
		{"underscore is not a wildcard", ProfileFilter{Search: "a_i"}, nil},
		{"category and search", ProfileFilter{Category: bazi.CategoryFamily, Search: "al"}, nil},
		{"limit and offset", ProfileFilter{Limit: 1, Offset: 1}, []string{"Bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.ListProfiles(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListProfiles() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ListProfiles() returned %d profiles, want %d", len(got), len(tt.want))
			}
			for i, p := range got {
				if p.Nickname != tt.want[i] {
					t.Errorf("profile %d = %q, want %q", i, p.Nickname, tt.want[i])
				}
			}
		})
	}
}

func TestCountProfiles(t *testing.T) {
	db := testDB(t)

	a := sampleProfile("A")
	b := sampleProfile("B")
	c := sampleProfile("C")
	c.Category = bazi.CategoryCelebrity
	seedProfiles(t, db, a, b, c)

	counts, err := db.CountProfiles(context.Background())
	if err != nil {
		t.Fatalf("CountProfiles() error = %v", err)
	}
	if counts[bazi.CategoryFamily] != 2 || counts[bazi.CategoryCelebrity] != 1 {
		t.Errorf("CountProfiles() = %v", counts)
	}
}

func TestLastSelectedProfile(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.GetLastSelectedProfile(ctx); !IsNotFound(err) {
		t.Fatalf("GetLastSelectedProfile() on empty db error = %v, want not found", err)
	}

	first := sampleProfile("First")
	second := sampleProfile("Second")
	seedProfiles(t, db, first, second)

	if err := db.SetLastSelectedProfile(ctx, first.ID); err != nil {
		t.Fatalf("SetLastSelectedProfile() error = %v", err)
	}
	got, err := db.GetLastSelectedProfile(ctx)
	if err != nil {
		t.Fatalf("GetLastSelectedProfile() error = %v", err)
	}
	if got.ID != first.ID || !got.IsLastSelected {
		t.Errorf("last selected = %d, want %d", got.ID, first.ID)
	}

	if err := db.SetLastSelectedProfile(ctx, second.ID); err != nil {
		t.Fatalf("SetLastSelectedProfile() error = %v", err)
	}
	got, err = db.GetLastSelectedProfile(ctx)
	if err != nil {
		t.Fatalf("GetLastSelectedProfile() error = %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("last selected = %d, want %d", got.ID, second.ID)
	}

	// Only one profile carries the flag.
	reloaded, err := db.GetProfile(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetProfile() error = %v", err)
	}
	if reloaded.IsLastSelected {
		t.Error("previous selection was not cleared")
	}
}

func TestSetLastSelectedProfile_NotFoundKeepsSelection(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	p := sampleProfile("Keep")
	seedProfiles(t, db, p)
	if err := db.SetLastSelectedProfile(ctx, p.ID); err != nil {
		t.Fatalf("SetLastSelectedProfile() error = %v", err)
	}

	if err := db.SetLastSelectedProfile(ctx, 999); !IsNotFound(err) {
		t.Fatalf("SetLastSelectedProfile(999) error = %v, want not found", err)
	}

	got, err := db.GetLastSelectedProfile(ctx)
	if err != nil {
		t.Fatalf("GetLastSelectedProfile() error = %v", err)
	}
	if got.ID != p.ID {
		t.Errorf("selection changed to %d, want %d", got.ID, p.ID)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := map[string]string{
		"plain":   "plain",
		"50%":     `50\%`,
		"a_b":     `a\_b`,
		`back\sl`: `back\\sl`,
	}
	for in, want := range tests {
		if got := escapeLike(in); got != want {
			t.Errorf("escapeLike(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestImportProfiles(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	seedProfiles(t, db, sampleProfile("existing"))

	stats, err := db.ImportProfiles(ctx, []bazi.Profile{
		*sampleProfile("existing"),
		*sampleProfile("new-a"),
		*sampleProfile("new-b"),
	})
	if err != nil {
		t.Fatalf("ImportProfiles() error = %v", err)
	}
	if stats.Created != 2 || stats.Duplicates != 1 {
		t.Errorf("stats = %+v, want 2 created, 1 duplicate", stats)
	}

	counts, err := db.CountProfiles(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[bazi.CategoryFamily] != 3 {
		t.Errorf("family count = %d, want 3", counts[bazi.CategoryFamily])
	}
}

func TestImportProfiles_RollsBackOnError(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	bad := *sampleProfile("bad")
	bad.Gender = "unknown" // violates the CHECK constraint

	_, err := db.ImportProfiles(ctx, []bazi.Profile{*sampleProfile("good"), bad})
	if err == nil {
		t.Fatal("ImportProfiles() expected error")
	}

	profiles, err := db.ListProfiles(ctx, ProfileFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 0 {
		t.Errorf("expected rollback, found %d profiles", len(profiles))
	}
}
