// ABOUTME: Ties the scanner, the typed worker pool, and the single DB
// ABOUTME: writer goroutine into one batch run

package batch

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"

	"lrclib-match/musicxml"
	"lrclib-match/pool"
)

// RunOptions is the full set of knobs for one `batch` command invocation.
type RunOptions struct {
	Root       string
	InputDir   string
	OutputDir  string
	BaseLRCDir string
	DBPath     string
	Workers    int
	Queue      int
	Exts       string
	NoMove     bool
	NoOutput   bool
	Extract    musicxml.ExtractOptions
}

// resolvePaths fills in any unset directory options with their defaults
// relative to Root.
func (o *RunOptions) resolvePaths() {
	if o.InputDir == "" {
		o.InputDir = filepath.Join(o.Root, "input")
	}
	if o.OutputDir == "" {
		o.OutputDir = filepath.Join(o.Root, "lrc")
	}
	if o.DBPath == "" {
		o.DBPath = filepath.Join(o.Root, "state.sqlite")
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Queue <= 0 {
		o.Queue = 5000
	}
	if o.Exts == "" {
		o.Exts = "musicxml,xml"
	}
}

// Run executes one full batch pass: scan, process in parallel, persist
// results, move inputs into terminal buckets.
func Run(log *zap.SugaredLogger, opts RunOptions) error {
	opts.resolvePaths()

	if err := os.MkdirAll(opts.InputDir, 0o755); err != nil {
		return fmt.Errorf("batch: creating input dir %s: %w", opts.InputDir, err)
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return fmt.Errorf("batch: creating output dir %s: %w", opts.OutputDir, err)
	}

	buckets := NewBuckets(opts.Root)
	if err := buckets.EnsureDirs(); err != nil {
		return fmt.Errorf("batch: creating bucket dirs: %w", err)
	}

	db, err := sql.Open("sqlite", opts.DBPath)
	if err != nil {
		return fmt.Errorf("batch: opening state store %s: %w", opts.DBPath, err)
	}
	defer db.Close()

	if err := InitDB(db); err != nil {
		return err
	}
	if err := StartupRecovery(db, nowUnix()); err != nil {
		return err
	}

	workerOpts := Options{
		Extract:    opts.Extract,
		InputDir:   opts.InputDir,
		OutputDir:  opts.OutputDir,
		BaseLRCDir: opts.BaseLRCDir,
		Buckets:    buckets,
		NoMove:     opts.NoMove,
		NoOutput:   opts.NoOutput,
	}

	workerPool := pool.NewTypedPool(opts.Workers, opts.Queue, func(_ int, job Job) Outcome {
		return RunJob(workerOpts, job)
	})

	log.Infof("scanning %s for inputs", opts.InputDir)
	var enqueued atomic.Int64
	go func() {
		defer workerPool.CloseJobs()
		if err := ScanInputDir(db, opts.InputDir, ParseExts(opts.Exts), func(j Job) error {
			workerPool.Submit(j)
			enqueued.Add(1)
			return nil
		}); err != nil {
			log.Errorf("batch: scanning input directory: %v", err)
		}
	}()

	go workerPool.Wait()

	if err := DBWriterLoop(db, workerPool.Outcomes()); err != nil {
		return fmt.Errorf("batch: running DB writer: %w", err)
	}

	log.Infof("batch run complete, %d jobs enqueued", enqueued.Load())
	return nil
}
