package sharedmime

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/freedesktop-go/sharedmime/basedir"
)

// reloadDebounce is how long Watcher waits after the last filesystem event before rebuilding the
// Engine, so that a tool rewriting several mime/* files in quick succession (as
// update-mime-database does) triggers one reload instead of several.
const reloadDebounce = 250 * time.Millisecond

// Watcher keeps a live Engine in sync with the on-disk shared-mime-info databases, rebuilding it
// whenever a watched mime directory changes. The zero value is not usable; construct one with
// NewWatcher.
type Watcher struct {
	current atomic.Pointer[Engine]
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher loads the initial Engine from the OS databases and starts watching their containing
// directories for changes. Call Close when done to stop the background goroutine.
func NewWatcher(ctx context.Context) (*Watcher, error) {
	eng, err := LoadFromOS()
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range watchedMimeDirs() {
		if err := fw.Add(dir); err != nil {
			log.Printf("sharedmime: watch %s: %v", dir, err)
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{watcher: fw, cancel: cancel, done: make(chan struct{})}
	w.current.Store(eng)
	go w.loop(ctx)
	return w, nil
}

// Engine returns the most recently loaded Engine. The returned value is immutable and safe to
// keep using even after a subsequent reload replaces it.
func (w *Watcher) Engine() *Engine { return w.current.Load() }

// Close stops the background watch goroutine and releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	w.cancel()
	<-w.done
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(reloadDebounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("sharedmime: watcher error: %v", err)
		case <-timer.C:
			eng, err := LoadFromOS()
			if err != nil {
				log.Printf("sharedmime: reload failed, keeping previous engine: %v", err)
				continue
			}
			w.current.Store(eng)
		}
	}
}

// watchedMimeDirs lists every existing mime/ subdirectory under XDG_DATA_HOME and
// XDG_DATA_DIRS, since that's where the magic/subclasses/aliases files being watched live.
func watchedMimeDirs() []string {
	var dirs []string
	for _, base := range append([]string{basedir.DataHome}, basedir.DataDirs...) {
		dir := filepath.Join(base, "mime")
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
