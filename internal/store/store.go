// Package store persists artworks, their reference rasters, and the
// singleton config row in a SQLite database file. modernc.org/sqlite is a
// pure-Go driver — no cgo toolchain needed to embed a single-writer
// database alongside the binary.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"bluescan/internal/apperr"
	"bluescan/internal/config"
	"bluescan/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS artworks (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	x           INTEGER NOT NULL,
	y           INTEGER NOT NULL,
	w           INTEGER NOT NULL,
	h           INTEGER NOT NULL,
	mode        TEXT NOT NULL,
	added_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS templates (
	artwork_id INTEGER PRIMARY KEY REFERENCES artworks(id) ON DELETE CASCADE,
	w INTEGER NOT NULL, h INTEGER NOT NULL, pix BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS grounds (
	artwork_id INTEGER PRIMARY KEY REFERENCES artworks(id) ON DELETE CASCADE,
	w INTEGER NOT NULL, h INTEGER NOT NULL, pix BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS baselines (
	artwork_id INTEGER PRIMARY KEY REFERENCES artworks(id) ON DELETE CASCADE,
	w INTEGER NOT NULL, h INTEGER NOT NULL, pix BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS masks (
	artwork_id INTEGER PRIMARY KEY REFERENCES artworks(id) ON DELETE CASCADE,
	w INTEGER NOT NULL, h INTEGER NOT NULL, pix BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS config (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	toml TEXT NOT NULL
);
`

// Store wraps the SQLite connection. Every method that touches the
// database takes a context so the API layer can bound request latency.
type Store struct {
	db *sql.DB
}

// Open opens (creating if absent) a SQLite database file and applies the
// schema. Foreign key cascades are enabled per-connection, as modernc's
// sqlite driver does not turn them on by default.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, apperr.Wrap(apperr.BackendUnavailable, "opening database", err)
	}
	db.SetMaxOpenConns(1) // modernc's sqlite does not support concurrent writers

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperr.Wrap(apperr.BackendUnavailable, "applying schema", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// ListArtworks returns every registered artwork, ordered by id, with the
// Has* flags populated from a join against the raster tables.
func (s *Store) ListArtworks(ctx context.Context) ([]model.Artwork, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.name, a.x, a.y, a.w, a.h, a.mode, a.added_at,
		       t.artwork_id IS NOT NULL, g.artwork_id IS NOT NULL,
		       m.artwork_id IS NOT NULL, b.artwork_id IS NOT NULL
		FROM artworks a
		LEFT JOIN templates t ON t.artwork_id = a.id
		LEFT JOIN grounds   g ON g.artwork_id = a.id
		LEFT JOIN masks     m ON m.artwork_id = a.id
		LEFT JOIN baselines b ON b.artwork_id = a.id
		ORDER BY a.id`)
	if err != nil {
		return nil, apperr.Wrap(apperr.BackendUnavailable, "listing artworks", err)
	}
	defer rows.Close()

	var out []model.Artwork
	for rows.Next() {
		var a model.Artwork
		var mode string
		if err := rows.Scan(&a.ID, &a.Name, &a.Placement.X, &a.Placement.Y, &a.Placement.W, &a.Placement.H,
			&mode, &a.AddedAt, &a.HasTemplate, &a.HasGround, &a.HasMask, &a.HasBaseline); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "scanning artwork row", err)
		}
		a.Mode = model.Mode(mode)
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetArtwork fetches a single artwork by id.
func (s *Store) GetArtwork(ctx context.Context, id int64) (model.Artwork, error) {
	var a model.Artwork
	var mode string
	row := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.name, a.x, a.y, a.w, a.h, a.mode, a.added_at,
		       t.artwork_id IS NOT NULL, g.artwork_id IS NOT NULL,
		       m.artwork_id IS NOT NULL, b.artwork_id IS NOT NULL
		FROM artworks a
		LEFT JOIN templates t ON t.artwork_id = a.id
		LEFT JOIN grounds   g ON g.artwork_id = a.id
		LEFT JOIN masks     m ON m.artwork_id = a.id
		LEFT JOIN baselines b ON b.artwork_id = a.id
		WHERE a.id = ?`, id)
	if err := row.Scan(&a.ID, &a.Name, &a.Placement.X, &a.Placement.Y, &a.Placement.W, &a.Placement.H,
		&mode, &a.AddedAt, &a.HasTemplate, &a.HasGround, &a.HasMask, &a.HasBaseline); err != nil {
		if err == sql.ErrNoRows {
			return model.Artwork{}, apperr.New(apperr.NotFound, fmt.Sprintf("artwork %d not found", id))
		}
		return model.Artwork{}, apperr.Wrap(apperr.Internal, "scanning artwork row", err)
	}
	a.Mode = model.Mode(mode)
	return a, nil
}

// CreateArtwork inserts a new artwork and returns its assigned id.
func (s *Store) CreateArtwork(ctx context.Context, name string, p model.Placement, mode model.Mode) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO artworks (name, x, y, w, h, mode, added_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, p.X, p.Y, p.W, p.H, string(mode), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, apperr.Wrap(apperr.BackendUnavailable, "inserting artwork", err)
	}
	return res.LastInsertId()
}

// UpdateMode changes an artwork's mode (build vs protect).
func (s *Store) UpdateMode(ctx context.Context, id int64, mode model.Mode) error {
	res, err := s.db.ExecContext(ctx, `UPDATE artworks SET mode = ? WHERE id = ?`, string(mode), id)
	if err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, "updating mode", err)
	}
	return requireAffected(res, id)
}

// UpdatePlacement moves/resizes an artwork. No API handler calls it;
// place_tl sets the placement when it creates the artwork.
func (s *Store) UpdatePlacement(ctx context.Context, id int64, p model.Placement) error {
	res, err := s.db.ExecContext(ctx, `UPDATE artworks SET x = ?, y = ?, w = ?, h = ? WHERE id = ?`,
		p.X, p.Y, p.W, p.H, id)
	if err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, "updating placement", err)
	}
	return requireAffected(res, id)
}

// DeleteArtwork removes an artwork and, via ON DELETE CASCADE, all of its
// rasters.
func (s *Store) DeleteArtwork(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM artworks WHERE id = ?`, id)
	if err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, "deleting artwork", err)
	}
	return requireAffected(res, id)
}

func requireAffected(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Wrap(apperr.Internal, "checking affected rows", err)
	}
	if n == 0 {
		return apperr.New(apperr.NotFound, fmt.Sprintf("artwork %d not found", id))
	}
	return nil
}

// LoadConfig reads the singleton config row, decoding it with the config
// package's TOML codec. If no row exists yet it returns ok=false and a
// zero Config; callers substitute config.Default() themselves.
func (s *Store) LoadConfig(ctx context.Context) (config.Config, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT toml FROM config WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		return config.Config{}, false, nil
	}
	if err != nil {
		return config.Config{}, false, apperr.Wrap(apperr.BackendUnavailable, "loading config", err)
	}
	cfg, err := config.DecodeTOML(raw)
	if err != nil {
		return config.Config{}, false, apperr.Wrap(apperr.Internal, "decoding stored config", err)
	}
	return cfg, true, nil
}

// SaveConfig upserts the singleton config row.
func (s *Store) SaveConfig(ctx context.Context, cfg config.Config) error {
	raw, err := config.EncodeTOML(cfg)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "encoding config", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO config (id, toml) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET toml = excluded.toml`, raw)
	if err != nil {
		return apperr.Wrap(apperr.BackendUnavailable, "saving config", err)
	}
	return nil
}
