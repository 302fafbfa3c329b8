// ABOUTME: SQLite-backed job state store: schema, crash recovery, skip
// ABOUTME: checks, and the single-writer batched flush loop

package batch

import (
	"database/sql"
	"fmt"
	"time"
)

// InitDB creates the jobs table and tunes the connection for a single
// writer with many concurrent readers (WAL, NORMAL sync, a busy timeout
// so the writer goroutine never needs to retry manually).
func InitDB(db *sql.DB) error {
	_, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA synchronous=NORMAL;
		PRAGMA temp_store=MEMORY;
		PRAGMA busy_timeout=5000;

		CREATE TABLE IF NOT EXISTS jobs (
			input_path    TEXT PRIMARY KEY,
			input_mtime   INTEGER NOT NULL,
			input_size    INTEGER NOT NULL,
			status        TEXT NOT NULL,
			reason_code   TEXT,
			error         TEXT,
			attempt_count INTEGER NOT NULL DEFAULT 0,
			started_at    INTEGER,
			finished_at   INTEGER,
			dest_path     TEXT,
			output_path   TEXT,
			updated_at    INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
	`)
	if err != nil {
		return fmt.Errorf("batch: initializing job store: %w", err)
	}
	return nil
}

// StartupRecovery resets any job left in an in-flight state by a crashed
// previous run back to pending, so the scan picks it up again.
func StartupRecovery(db *sql.DB, nowUnix int64) error {
	_, err := db.Exec(`UPDATE jobs SET status='pending', updated_at=? WHERE status IN ('validating','processing')`, nowUnix)
	if err != nil {
		return fmt.Errorf("batch: running startup recovery: %w", err)
	}
	return nil
}

// IsDone reports whether path was already completed with the same mtime
// and size as last recorded; a changed mtime/size means the file was
// edited since and should be reprocessed.
func IsDone(db *sql.DB, path string, mtime, size int64) (bool, error) {
	var status string
	var priorMTime, priorSize int64
	err := db.QueryRow(`SELECT status, input_mtime, input_size FROM jobs WHERE input_path=?`, path).
		Scan(&status, &priorMTime, &priorSize)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("batch: checking job status for %s: %w", path, err)
	}
	return status == "done" && priorMTime == mtime && priorSize == size, nil
}

// UpsertPending records path as queued for processing, preserving a prior
// 'done' status if the upsert races with a finished job (the writer
// goroutine runs concurrently with the scanner).
func UpsertPending(db *sql.DB, path string, mtime, size, nowUnix int64) error {
	_, err := db.Exec(`
		INSERT INTO jobs (input_path, input_mtime, input_size, status, updated_at)
		VALUES (?, ?, ?, 'pending', ?)
		ON CONFLICT(input_path) DO UPDATE SET
			input_mtime=excluded.input_mtime,
			input_size=excluded.input_size,
			status=CASE WHEN jobs.status='done' THEN jobs.status ELSE 'pending' END,
			updated_at=excluded.updated_at
	`, path, mtime, size, nowUnix)
	if err != nil {
		return fmt.Errorf("batch: upserting pending job %s: %w", path, err)
	}
	return nil
}

// DBWriterLoop is the single goroutine allowed to write to the job store
// while workers run. It batches outcomes, flushing on a count threshold or
// a time threshold, whichever comes first, and drains on channel close.
func DBWriterLoop(db *sql.DB, outcomes <-chan Outcome) error {
	const flushCount = 1000
	const flushEvery = 750 * time.Millisecond

	batch := make([]Outcome, 0, 500)
	lastFlush := time.Now()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case o, ok := <-outcomes:
			if !ok {
				if len(batch) > 0 {
					if err := FlushBatch(db, batch); err != nil {
						return err
					}
				}
				return nil
			}
			batch = append(batch, o)
			if len(batch) >= flushCount || time.Since(lastFlush) >= flushEvery {
				if err := FlushBatch(db, batch); err != nil {
					return err
				}
				batch = batch[:0]
				lastFlush = time.Now()
			}
		case <-ticker.C:
			if len(batch) > 0 && time.Since(lastFlush) >= flushEvery {
				if err := FlushBatch(db, batch); err != nil {
					return err
				}
				batch = batch[:0]
				lastFlush = time.Now()
			}
		}
	}
}

// FlushBatch writes a batch of outcomes to the jobs table in one
// transaction.
func FlushBatch(db *sql.DB, batch []Outcome) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("batch: starting flush transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		UPDATE jobs
		SET status=?,
			reason_code=?,
			error=?,
			attempt_count=attempt_count + CASE WHEN ?='failed' THEN 1 ELSE 0 END,
			finished_at=?,
			dest_path=?,
			output_path=?,
			updated_at=?
		WHERE input_path=?
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("batch: preparing flush update: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, o := range batch {
		status := o.Status.AsDB()
		if _, err := stmt.Exec(status, nullableString(o.ReasonCode), nullableString(o.Error), status,
			now, nullableString(o.DestPath), nullableString(o.OutputPath), now, o.Job.InputPath); err != nil {
			tx.Rollback()
			return fmt.Errorf("batch: updating job %s: %w", o.Job.InputPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("batch: committing flush: %w", err)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nowUnix() int64 {
	return time.Now().Unix()
}
