package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
var migrationsSQL = map[int]string{
	1: migrationV1Profiles,
	2: migrationV2LastSelected,
}

// migrationV1Profiles creates the birth profile table.
//
//   - birth_date_time is the civil, zone-naive wall clock as
//     "YYYY-MM-DDTHH:MM:SS"; time_zone says how to read it.
//   - current_* columns are optional and nullable.
//   - The same person is recognised by nickname, birth time and zone.
const migrationV1Profiles = `
CREATE TABLE profiles (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    nickname           TEXT    NOT NULL,
    gender             TEXT    NOT NULL CHECK (gender IN ('male', 'female')),
    category           TEXT    NOT NULL DEFAULT 'self'
                               CHECK (category IN ('self', 'family', 'friend', 'celebrity', 'event')),
    birth_date_time    TEXT    NOT NULL,
    time_zone          TEXT    NOT NULL,
    is_daylight_saving INTEGER NOT NULL DEFAULT 0,
    birth_place        TEXT    NOT NULL DEFAULT '',
    birth_latitude     REAL    NOT NULL DEFAULT 0,
    birth_longitude    REAL    NOT NULL DEFAULT 0,
    current_place      TEXT,
    current_latitude   REAL,
    current_longitude  REAL,
    created_at         TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
    updated_at         TEXT    NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
    UNIQUE (nickname, birth_date_time, time_zone)
);

CREATE INDEX idx_profiles_category ON profiles(category);
CREATE INDEX idx_profiles_created_at ON profiles(created_at);
`

// migrationV2LastSelected tracks the profile the user last opened.
// The partial unique index allows at most one selected row.
const migrationV2LastSelected = `
ALTER TABLE profiles ADD COLUMN is_last_selected INTEGER NOT NULL DEFAULT 0;

CREATE UNIQUE INDEX idx_profiles_last_selected
    ON profiles(is_last_selected) WHERE is_last_selected = 1;
`
