package batch

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := InitDB(db); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return db
}

func TestUpsertPendingThenIsDoneFalseUntilFinished(t *testing.T) {
	db := openTestDB(t)

	if err := UpsertPending(db, "/in/a.musicxml", 100, 200, 1000); err != nil {
		t.Fatalf("UpsertPending: %v", err)
	}

	done, err := IsDone(db, "/in/a.musicxml", 100, 200)
	if err != nil {
		t.Fatalf("IsDone: %v", err)
	}
	if done {
		t.Error("expected not done before a finished outcome is flushed")
	}
}

func TestFlushBatchMarksDoneThenIsDoneTrue(t *testing.T) {
	db := openTestDB(t)

	if err := UpsertPending(db, "/in/a.musicxml", 100, 200, 1000); err != nil {
		t.Fatalf("UpsertPending: %v", err)
	}

	err := FlushBatch(db, []Outcome{
		{Job: Job{InputPath: "/in/a.musicxml", MTime: 100, Size: 200}, Status: StatusDone, ReasonCode: "EXTRACTED"},
	})
	if err != nil {
		t.Fatalf("FlushBatch: %v", err)
	}

	done, err := IsDone(db, "/in/a.musicxml", 100, 200)
	if err != nil {
		t.Fatalf("IsDone: %v", err)
	}
	if !done {
		t.Error("expected done after flushing a Done outcome")
	}

	doneStale, err := IsDone(db, "/in/a.musicxml", 999, 200)
	if err != nil {
		t.Fatalf("IsDone: %v", err)
	}
	if doneStale {
		t.Error("expected not done when mtime no longer matches")
	}
}

func TestUpsertPendingPreservesDoneStatus(t *testing.T) {
	db := openTestDB(t)

	if err := UpsertPending(db, "/in/a.musicxml", 100, 200, 1000); err != nil {
		t.Fatalf("UpsertPending: %v", err)
	}
	if err := FlushBatch(db, []Outcome{
		{Job: Job{InputPath: "/in/a.musicxml"}, Status: StatusDone},
	}); err != nil {
		t.Fatalf("FlushBatch: %v", err)
	}

	if err := UpsertPending(db, "/in/a.musicxml", 100, 200, 2000); err != nil {
		t.Fatalf("second UpsertPending: %v", err)
	}

	var status string
	if err := db.QueryRow(`SELECT status FROM jobs WHERE input_path=?`, "/in/a.musicxml").Scan(&status); err != nil {
		t.Fatalf("querying status: %v", err)
	}
	if status != "done" {
		t.Errorf("expected status to remain done, got %q", status)
	}
}

func TestStartupRecoveryResetsInFlightJobs(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec(`INSERT INTO jobs (input_path, input_mtime, input_size, status, updated_at)
		VALUES ('/in/a.musicxml', 1, 1, 'processing', 1)`); err != nil {
		t.Fatalf("seeding job: %v", err)
	}

	if err := StartupRecovery(db, 2000); err != nil {
		t.Fatalf("StartupRecovery: %v", err)
	}

	var status string
	if err := db.QueryRow(`SELECT status FROM jobs WHERE input_path=?`, "/in/a.musicxml").Scan(&status); err != nil {
		t.Fatalf("querying status: %v", err)
	}
	if status != "pending" {
		t.Errorf("expected pending after recovery, got %q", status)
	}
}
