// Package indexdb maintains a queryable SQLite index over the step
// log. The index is a secondary structure: the JSONL step log remains
// the source of truth, and the indexer may drop writes under pressure
// rather than stall the simulation.
package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"hexcraft.ai/internal/sim/catalogs"
	"hexcraft.ai/internal/sim/tuning"
	"hexcraft.ai/internal/sim/world"
)

type SQLiteIndex struct {
	db *sql.DB

	ch   chan world.StepReport
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropStepTotal atomic.Uint64
}

type Stats struct {
	DropStepTotal uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan world.StepReport, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS steps (
			height INTEGER PRIMARY KEY,
			digest TEXT NOT NULL,
			kills INTEGER NOT NULL,
			drops INTEGER NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS kills (
			height INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			kind TEXT NOT NULL,
			entity_id INTEGER NOT NULL,
			PRIMARY KEY (height, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_kills_entity ON kills(kind, entity_id);`,
		`CREATE TABLE IF NOT EXISTS drops (
			height INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			item TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (height, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_drops_item ON drops(item, height);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// WriteStep queues a step report for indexing. Never blocks: if the
// indexer falls behind, the report is dropped and counted.
func (s *SQLiteIndex) WriteStep(r world.StepReport) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- r:
	default:
		s.dropStepTotal.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{DropStepTotal: s.dropStepTotal.Load()}
}

// UpsertCatalogs records the digests of the config files the world is
// running with, so an operator can match a db against its configs.
func (s *SQLiteIndex) UpsertCatalogs(cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	tuneJSON, _ := json.Marshal(tune)
	tuneSum := sha256.Sum256(tuneJSON)

	rows := []struct {
		name   string
		digest string
	}{
		{"units", cats.UnitsDigest},
		{"structures", cats.StructuresDigest},
		{"tuning", hex.EncodeToString(tuneSum[:])},
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	for _, r := range rows {
		if r.digest == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO catalogs(name,digest,updated_at) VALUES(?,?,?)`, r.name, r.digest, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ResetRun clears all indexed steps, kills and drops. Called when a
// world starts a fresh run from height 1: INSERT OR REPLACE only
// overwrites matching keys, so rows from a previous longer run beyond
// the new run's heights would otherwise linger and mix two runs.
func (s *SQLiteIndex) ResetRun() error {
	if s == nil {
		return nil
	}
	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"steps", "kills", "drops"} {
		if _, err := tx.Exec(`DELETE FROM ` + table); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// StepDigest returns the recorded digest for a height, or sql.ErrNoRows.
func (s *SQLiteIndex) StepDigest(height uint64) (string, error) {
	var digest string
	err := s.db.QueryRow(`SELECT digest FROM steps WHERE height=?`, int64(height)).Scan(&digest)
	return digest, err
}

// MaxHeight returns the highest indexed step, zero if none.
func (s *SQLiteIndex) MaxHeight() (uint64, error) {
	var h sql.NullInt64
	if err := s.db.QueryRow(`SELECT MAX(height) FROM steps`).Scan(&h); err != nil {
		return 0, err
	}
	if !h.Valid {
		return 0, nil
	}
	return uint64(h.Int64), nil
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertStep, _ := s.db.Prepare(`INSERT OR REPLACE INTO steps(height,digest,kills,drops,raw_json) VALUES(?,?,?,?,?)`)
	insertKill, _ := s.db.Prepare(`INSERT OR REPLACE INTO kills(height,seq,kind,entity_id) VALUES(?,?,?,?)`)
	insertDrop, _ := s.db.Prepare(`INSERT OR REPLACE INTO drops(height,seq,x,y,item,count) VALUES(?,?,?,?,?,?)`)
	defer func() {
		if insertStep != nil {
			_ = insertStep.Close()
		}
		if insertKill != nil {
			_ = insertKill.Close()
		}
		if insertDrop != nil {
			_ = insertDrop.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}

		raw, _ := json.Marshal(r)
		if insertStep != nil {
			if _, err := tx.Stmt(insertStep).Exec(
				int64(r.Height),
				r.Digest,
				len(r.Dead),
				len(r.Drops),
				string(raw),
			); err != nil {
				rollback()
				continue
			}
			opCount++
		}
		bad := false
		for i, k := range r.Dead {
			if insertKill == nil {
				break
			}
			if _, err := tx.Stmt(insertKill).Exec(int64(r.Height), i, k.Kind, int64(k.ID)); err != nil {
				rollback()
				bad = true
				break
			}
			opCount++
		}
		if bad {
			continue
		}
		for i, d := range r.Drops {
			if insertDrop == nil {
				break
			}
			if _, err := tx.Stmt(insertDrop).Exec(int64(r.Height), i, d.Pos.X, d.Pos.Y, d.Item, d.Count); err != nil {
				rollback()
				bad = true
				break
			}
			opCount++
		}
		if bad {
			continue
		}

		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}
