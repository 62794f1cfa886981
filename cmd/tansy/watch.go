package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sambeau/tansy/config"
)

// watchDebounce lets rapid editor writes settle before a rerun.
const watchDebounce = 100 * time.Millisecond

// watchAndRun reruns the script whenever it changes on disk. The
// previous run's context is cancelled and the run awaited before the
// next one starts, so two runs never interleave their output. Watch
// runs are non-interactive: <input> tags resolve empty and a rerun
// never waits on Enter.
func watchAndRun(ctx context.Context, path string, cfg *config.Config, stdout, stderr io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors that save through a
	// rename replace the inode and a file watch would go stale.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	st := newStyles(cfg.NoColor)
	fmt.Fprintln(stdout, st.muted.Render(fmt.Sprintf("[watch] watching %s (Ctrl+C to stop)", path)))

	runner := &watchRunner{cfg: cfg, stdout: stdout, stderr: stderr, st: st}
	runner.start(ctx, path)

	debounce := time.NewTimer(0)
	<-debounce.C // drain initial timer
	pending := false

	for {
		select {
		case <-ctx.Done():
			runner.stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				runner.stop()
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			pending = true
			debounce.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				runner.stop()
				return nil
			}
			fmt.Fprintf(stderr, "[watch] error: %v\n", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false
			fmt.Fprintln(stdout, st.muted.Render(fmt.Sprintf("[watch] %s changed, rerunning", path)))
			runner.stop()
			runner.start(ctx, path)
		}
	}
}

// watchRunner owns the lifecycle of one script run at a time. All calls
// happen on the watch event loop; only the run itself is a goroutine.
type watchRunner struct {
	cfg    *config.Config
	stdout io.Writer
	stderr io.Writer
	st     styles

	runs   int
	cancel context.CancelFunc
	done   chan struct{}
}

func (r *watchRunner) start(ctx context.Context, path string) {
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	r.runs++

	header := fmt.Sprintf("──── run %d at %s ────", r.runs, time.Now().Format("15:04:05"))
	fmt.Fprintln(r.stdout, r.st.section.Render(header))

	done := r.done
	go func() {
		defer close(done)
		if err := runFile(runCtx, path, r.cfg, nil, r.stdout, r.stderr); err != nil {
			fmt.Fprintf(r.stderr, "error: %v\n", err)
		}
	}()
}

// stop cancels the active run and waits for it to wind down. Forever
// loops and the surface scheduler all stop on the context.
func (r *watchRunner) stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
	r.cancel = nil
}
