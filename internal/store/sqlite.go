package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/yourorg/harscope/pkg/types"
)

// ErrNotFound is returned when the requested run does not exist.
var ErrNotFound = errors.New("run not found")

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db}
	if err := s.Init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return err
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			file_path TEXT NOT NULL,
			file_hash TEXT NOT NULL,
			entries INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			score INTEGER NOT NULL,
			grade TEXT NOT NULL,
			avg_response_time REAL NOT NULL,
			error_rate REAL NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_hash ON runs(file_hash);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun persists one run summary. A missing ID or timestamp is filled
// in, so callers can hand over the summary straight from the analyzer.
func (s *SQLiteStore) SaveRun(run *types.RunSummary) error {
	if run == nil {
		return errors.New("run is nil")
	}
	if run.ID == "" {
		run.ID = ulid.Make().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO runs(id,file_path,file_hash,entries,skipped,score,grade,avg_response_time,error_rate,created_at) VALUES(?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.FilePath, run.FileHash, run.Entries, run.Skipped, run.Score, run.Grade, run.AvgResponseTime, run.ErrorRate, run.CreatedAt)
	return err
}

func (s *SQLiteStore) GetRun(id string) (*types.RunSummary, error) {
	row := s.db.QueryRow(`SELECT id,file_path,file_hash,entries,skipped,score,grade,avg_response_time,error_rate,created_at FROM runs WHERE id=?`, id)
	return scanRun(row)
}

// ListRuns returns runs newest first. A limit <= 0 means no limit.
func (s *SQLiteStore) ListRuns(limit int) ([]types.RunSummary, error) {
	q := `SELECT id,file_path,file_hash,entries,skipped,score,grade,avg_response_time,error_rate,created_at FROM runs ORDER BY created_at DESC, id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(q+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []types.RunSummary
	for rows.Next() {
		var r types.RunSummary
		if err := rows.Scan(&r.ID, &r.FilePath, &r.FileHash, &r.Entries, &r.Skipped, &r.Score, &r.Grade, &r.AvgResponseTime, &r.ErrorRate, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteRun(id string) error {
	res, err := s.db.Exec(`DELETE FROM runs WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// LatestRunForHash returns the newest run recorded for a capture with the
// given content hash, so repeat analyses of the same file can be compared.
func (s *SQLiteStore) LatestRunForHash(fileHash string) (*types.RunSummary, error) {
	row := s.db.QueryRow(`SELECT id,file_path,file_hash,entries,skipped,score,grade,avg_response_time,error_rate,created_at FROM runs WHERE file_hash=? ORDER BY created_at DESC, id DESC LIMIT 1`, fileHash)
	return scanRun(row)
}

func scanRun(row *sql.Row) (*types.RunSummary, error) {
	var r types.RunSummary
	err := row.Scan(&r.ID, &r.FilePath, &r.FileHash, &r.Entries, &r.Skipped, &r.Score, &r.Grade, &r.AvgResponseTime, &r.ErrorRate, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return errors.New("store is nil")
	}
	return s.db.Close()
}
