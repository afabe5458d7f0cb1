// Package watcher re-analyzes data files as they change in a watched
// directory, writing a fresh report next to each one.
package watcher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/copperwood-systems/datascout/internal/dataset"
	"github.com/copperwood-systems/datascout/internal/report"
	"github.com/copperwood-systems/datascout/internal/utils"
)

// Config controls what gets watched and how reports are produced.
type Config struct {
	// Dir is the directory to watch for data files.
	Dir string
	// OutDir receives the reports; defaults to Dir.
	OutDir string
	// Format is the report encoding: text, json, yaml, or markdown.
	Format string
	// Load and Build configure the analysis of each changed file.
	Load  dataset.Options
	Build report.Options
	// Debounce collapses bursts of events per path; defaults to 500ms.
	Debounce time.Duration
	Logger   *zap.Logger
}

// Watcher re-profiles data files when they are created or modified. All
// analysis runs on the watch goroutine, one file at a time.
type Watcher struct {
	cfg    Config
	fsw    *fsnotify.Watcher
	fireCh chan string
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New validates the directory and prepares a watcher.
func New(cfg Config) (*Watcher, error) {
	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cfg.Dir)
	}
	if cfg.OutDir == "" {
		cfg.OutDir = cfg.Dir
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Watcher{
		cfg:    cfg,
		fireCh: make(chan string),
		stopCh: make(chan struct{}),
		timers: map[string]*time.Timer{},
	}, nil
}

// Start begins watching. Events for the same path within the debounce window
// collapse into a single analysis run.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.cfg.Dir); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	w.fsw = fsw
	w.wg.Add(1)
	go w.run()
	return nil
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) {
				continue
			}
			if !shouldAnalyze(ev.Name) {
				continue
			}
			w.schedule(ev.Name)
		case path := <-w.fireCh:
			w.mu.Lock()
			delete(w.timers, path)
			w.mu.Unlock()
			w.analyze(path)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.cfg.Logger.Warn("watch error", zap.Error(err))
		case <-w.stopCh:
			return
		}
	}
}

// schedule arms (or re-arms) the per-path debounce timer. The timer hands
// the path back to the run loop so analyses never overlap.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.cfg.Debounce, func() {
		select {
		case w.fireCh <- path:
		case <-w.stopCh:
		}
	})
}

// analyze loads the file and writes its report. Failures are logged, never
// fatal: the next change gets another chance.
func (w *Watcher) analyze(path string) {
	log := w.cfg.Logger.With(zap.String("run", uuid.NewString()), zap.String("path", path))
	start := time.Now()

	ds, err := dataset.Load(path, w.cfg.Load)
	if err != nil {
		log.Warn("load failed", zap.Error(err))
		return
	}
	rep, err := report.Build(ds, w.cfg.Build)
	if err != nil {
		log.Warn("analysis failed", zap.Error(err))
		return
	}

	var buf bytes.Buffer
	switch w.cfg.Format {
	case "json":
		err = report.EncodeJSON(&buf, rep)
	case "yaml":
		err = report.EncodeYAML(&buf, rep)
	case "markdown":
		report.RenderMarkdown(&buf, rep)
	default:
		report.Render(&buf, rep, false)
	}
	if err != nil {
		log.Warn("encode failed", zap.Error(err))
		return
	}

	out := w.outPath(path)
	if err := utils.SafeWriteFile(out, buf.Bytes()); err != nil {
		log.Warn("write failed", zap.Error(err))
		return
	}
	log.Info("report written",
		zap.String("out", out),
		zap.Int("rows", ds.Rows()),
		zap.Duration("took", time.Since(start)))
}

func (w *Watcher) outPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(w.cfg.OutDir, base+".report."+extFor(w.cfg.Format))
}

func extFor(format string) string {
	switch format {
	case "json":
		return "json"
	case "yaml":
		return "yaml"
	case "markdown":
		return "md"
	default:
		return "txt"
	}
}

// shouldAnalyze filters events to data files, skipping our own output and
// in-progress temp writes.
func shouldAnalyze(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.Contains(base, ".report.") || strings.HasSuffix(base, ".tmp") {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".xlsx":
		return true
	}
	return false
}

// Stop halts the watcher, drops pending debounce timers, and waits for any
// in-flight analysis to finish.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	if w.fsw != nil {
		_ = w.fsw.Close()
	}
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	w.wg.Wait()
	return nil
}
