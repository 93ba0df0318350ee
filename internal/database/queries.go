package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zapponejosh/bazi-api/internal/bazi"
)

// =============================================================================
// Profile Queries
// =============================================================================

const insertProfileQuery = `
	INSERT INTO profiles (
		nickname, gender, category, birth_date_time, time_zone,
		is_daylight_saving, birth_place, birth_latitude, birth_longitude,
		current_place, current_latitude, current_longitude
	) VALUES (
		:nickname, :gender, :category, :birth_date_time, :time_zone,
		:is_daylight_saving, :birth_place, :birth_latitude, :birth_longitude,
		:current_place, :current_latitude, :current_longitude
	)
`

// CreateProfile inserts a profile and fills in its ID and timestamps.
// Returns ErrDuplicate if the same nickname, birth time and zone exist.
func (db *DB) CreateProfile(ctx context.Context, p *bazi.Profile) error {
	result, err := db.NamedExecContext(ctx, insertProfileQuery, newProfileRow(p))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create profile %q: %w", p.Nickname, ErrDuplicate)
		}
		return fmt.Errorf("create profile: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get profile id: %w", err)
	}

	created, err := db.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// ImportStats reports the outcome of ImportProfiles.
type ImportStats struct {
	Created    int
	Duplicates int
}

// ImportProfiles inserts profiles in a single transaction. Profiles that
// already exist are counted and skipped; any other failure rolls the whole
// import back.
func (db *DB) ImportProfiles(ctx context.Context, profiles []bazi.Profile) (ImportStats, error) {
	var stats ImportStats
	err := db.WithTx(ctx, func(tx *Tx) error {
		for i := range profiles {
			p := &profiles[i]
			if _, err := tx.NamedExecContext(ctx, insertProfileQuery, newProfileRow(p)); err != nil {
				if isUniqueViolation(err) {
					db.logger.Debug("skipping duplicate profile", "nickname", p.Nickname)
					stats.Duplicates++
					continue
				}
				return fmt.Errorf("import profile %d (%q): %w", i, p.Nickname, err)
			}
			stats.Created++
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}

// GetProfile retrieves a profile by ID.
// Returns ErrNotFound if the profile doesn't exist.
func (db *DB) GetProfile(ctx context.Context, id int64) (*bazi.Profile, error) {
	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ?`

	if err := db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile %d: %w", id, err)
	}

	p, err := row.toProfile()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile replaces every editable field of a profile.
// Returns ErrNotFound if the profile doesn't exist.
func (db *DB) UpdateProfile(ctx context.Context, p *bazi.Profile) error {
	row := newProfileRow(p)
	row.UpdatedAt = time.Now().UTC().Format(timestampLayout)

	query := `
		UPDATE profiles SET
			nickname = :nickname,
			gender = :gender,
			category = :category,
			birth_date_time = :birth_date_time,
			time_zone = :time_zone,
			is_daylight_saving = :is_daylight_saving,
			birth_place = :birth_place,
			birth_latitude = :birth_latitude,
			birth_longitude = :birth_longitude,
			current_place = :current_place,
			current_latitude = :current_latitude,
			current_longitude = :current_longitude,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := db.NamedExecContext(ctx, query, row)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update profile %d: %w", p.ID, ErrDuplicate)
		}
		return fmt.Errorf("update profile %d: %w", p.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	updated, err := db.GetProfile(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

// DeleteProfile removes a profile.
// Returns ErrNotFound if the profile doesn't exist.
func (db *DB) DeleteProfile(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete profile %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListProfiles returns profiles matching the filter, newest first.
func (db *DB) ListProfiles(ctx context.Context, f ProfileFilter) ([]bazi.Profile, error) {
	var (
		where []string
		args  []any
	)
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, string(f.Category))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, `nickname LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(s)+"%")
	}

	query := `SELECT ` + profileColumns + ` FROM profiles`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	var rows []profileRow
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]bazi.Profile, 0, len(rows))
	for _, r := range rows {
		p, err := r.toProfile()
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// CountProfiles returns the number of stored profiles per category.
func (db *DB) CountProfiles(ctx context.Context) (map[bazi.Category]int, error) {
	var rows []struct {
		Category string `db:"category"`
		Count    int    `db:"n"`
	}
	query := `SELECT category, COUNT(*) AS n FROM profiles GROUP BY category`
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count profiles: %w", err)
	}

	counts := make(map[bazi.Category]int, len(rows))
	for _, r := range rows {
		counts[bazi.Category(r.Category)] = r.Count
	}
	return counts, nil
}

// GetLastSelectedProfile returns the profile most recently selected.
// Returns ErrNotFound if none has been selected.
func (db *DB) GetLastSelectedProfile(ctx context.Context) (*bazi.Profile, error) {
	var row profileRow
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE is_last_selected = 1 LIMIT 1`

	if err := db.GetContext(ctx, &row, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get last selected profile: %w", err)
	}

	p, err := row.toProfile()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetLastSelectedProfile marks a profile as the last selected one and
// clears the mark from any other. Returns ErrNotFound, leaving the previous
// selection in place, if the profile doesn't exist.
func (db *DB) SetLastSelectedProfile(ctx context.Context, id int64) error {
	return db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET is_last_selected = 0 WHERE is_last_selected = 1`,
		); err != nil {
			return fmt.Errorf("clear last selected: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE profiles SET is_last_selected = 1 WHERE id = ?`, id,
		)
		if err != nil {
			return fmt.Errorf("set last selected %d: %w", id, err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check rows affected: %w", err)
		}
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// escapeLike escapes LIKE wildcards so the search matches them literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
