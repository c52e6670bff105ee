package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 500 * time.Millisecond

// FileWatcher reports debounced changes to a fixed set of files. Watches
// are placed on the parent directories, not the files themselves: an
// in-place rewrite replaces the file by rename, which would silently kill
// a watch on the old inode.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]bool

	onChange chan string
	mu       sync.Mutex
	timers   map[string]*time.Timer
	done     chan struct{}
}

func NewFileWatcher() (*FileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher:  fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		onChange: make(chan string, 16),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

func (w *FileWatcher) Add(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.files[absPath] = true
	return nil
}

// Start begins delivering changed file paths. Each path is debounced
// independently so a burst of writes to one file yields one event.
func (w *FileWatcher) Start() <-chan string {
	go w.run()
	return w.onChange
}

func (w *FileWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}

			name, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			w.mu.Lock()
			watched := w.files[name]
			w.mu.Unlock()

			if watched {
				w.trigger(name)
			}
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *FileWatcher) trigger(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t := w.timers[path]; t != nil {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(DefaultDebounce, func() {
		select {
		case w.onChange <- path:
		case <-w.done:
		}
	})
}

func (w *FileWatcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	close(w.done)
	return w.watcher.Close()
}
