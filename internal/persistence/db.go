// Package persistence provides a SQLite archive of generated terrain runs.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/hexwalk/internal/world"
)

// ErrRunNotFound is returned when no archived run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// DB wraps a SQLite connection for the run archive.
type DB struct {
	conn *sqlx.DB
}

// Run is the archived parameter set of one generation.
type Run struct {
	ID         string    `db:"id" json:"id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	Iterations int       `db:"iterations" json:"iterations"`
	StayProb   float64   `db:"stay_prob" json:"stay_prob"`
	StepSize   float64   `db:"step_size" json:"step_size"`
	Seed       int64     `db:"seed" json:"seed"`
	ColorMode  string    `db:"color_mode" json:"color_mode"`
	HexCount   int       `db:"hex_count" json:"hex_count"`
}

type hexRow struct {
	Seq     int     `db:"seq"`
	Q       int     `db:"q"`
	R       int     `db:"r"`
	ParentQ int     `db:"parent_q"`
	ParentR int     `db:"parent_r"`
	Ring    int     `db:"ring"`
	Height  float64 `db:"height"`
	Trend   int     `db:"trend"`
	ColorR  int     `db:"color_r"`
	ColorG  int     `db:"color_g"`
	ColorB  int     `db:"color_b"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		iterations INTEGER NOT NULL,
		stay_prob REAL NOT NULL,
		step_size REAL NOT NULL,
		seed INTEGER NOT NULL,
		color_mode TEXT NOT NULL,
		hex_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS hexes (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		parent_q INTEGER NOT NULL,
		parent_r INTEGER NOT NULL,
		ring INTEGER NOT NULL,
		height REAL NOT NULL,
		trend INTEGER NOT NULL,
		color_r INTEGER NOT NULL,
		color_g INTEGER NOT NULL,
		color_b INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun archives a completed map and the parameters that produced it.
func (db *DB) SaveRun(cfg world.GenConfig, m *world.Map) (Run, error) {
	run := Run{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Iterations: cfg.Iterations,
		StayProb:   cfg.StayProb,
		StepSize:   cfg.StepSize,
		Seed:       m.Seed,
		ColorMode:  cfg.ColorMode.String(),
		HexCount:   m.HexCount(),
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return Run{}, err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO runs
		(id, created_at, iterations, stay_prob, step_size, seed, color_mode, hex_count)
		VALUES (:id, :created_at, :iterations, :stay_prob, :step_size, :seed, :color_mode, :hex_count)`,
		run)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO hexes
		(run_id, seq, q, r, parent_q, parent_r, ring, height, trend, color_r, color_g, color_b)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, err
	}
	defer stmt.Close()

	for _, c := range m.Order {
		h := m.Get(c)
		a, p := h.Coord.Axial(), h.Parent.Axial()
		_, err := stmt.Exec(
			run.ID, h.Seq, a.Q, a.R, p.Q, p.R, h.Ring,
			h.Height, int(h.Trend), h.Color[0], h.Color[1], h.Color[2],
		)
		if err != nil {
			return Run{}, fmt.Errorf("insert hex %v: %w", h.Coord, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, err
	}
	slog.Debug("run archived", "id", run.ID, "hexes", run.HexCount)
	return run, nil
}

// GetRun returns the archived parameters for id.
func (db *DB) GetRun(id string) (Run, error) {
	var run Run
	err := db.conn.Get(&run, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// LoadRun rebuilds an archived map. Hexes are re-inserted in sequence order
// through Map.Set, so the map invariants are checked again on load.
func (db *DB) LoadRun(id string) (Run, *world.Map, error) {
	run, err := db.GetRun(id)
	if err != nil {
		return Run{}, nil, err
	}

	var rows []hexRow
	err = db.conn.Select(&rows, `SELECT seq, q, r, parent_q, parent_r, ring, height, trend,
		color_r, color_g, color_b FROM hexes WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return Run{}, nil, fmt.Errorf("load hexes: %w", err)
	}
	if len(rows) != run.HexCount {
		return Run{}, nil, fmt.Errorf("run %s: %d hexes stored, want %d", id, len(rows), run.HexCount)
	}

	m := world.NewMap(run.Iterations)
	m.Seed = run.Seed
	for _, row := range rows {
		hex := &world.Hex{
			Coord:  world.CubeFromAxial(world.Axial{Q: row.Q, R: row.R}),
			Height: row.Height,
			Trend:  world.Trend(row.Trend),
			Parent: world.CubeFromAxial(world.Axial{Q: row.ParentQ, R: row.ParentR}),
			Ring:   row.Ring,
			Color:  world.Color{uint8(row.ColorR), uint8(row.ColorG), uint8(row.ColorB)},
		}
		if err := m.Set(hex); err != nil {
			return Run{}, nil, fmt.Errorf("run %s: %w", id, err)
		}
		if hex.Seq != row.Seq {
			return Run{}, nil, fmt.Errorf("run %s: hex %v stored at seq %d, loaded at %d", id, hex.Coord, row.Seq, hex.Seq)
		}
	}

	return run, m, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	var runs []Run
	err := db.conn.Select(&runs,
		"SELECT * FROM runs ORDER BY rowid DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// DeleteRun removes a run and its hexes.
func (db *DB) DeleteRun(id string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM hexes WHERE run_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return tx.Commit()
}
