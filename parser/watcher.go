package parser

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/savari-labs/go-transit/graph"
)

//*******************************************
// feed file watcher
//*******************************************

// Watcher reloads the network feed file whenever the data-loading
// collaborator rewrites it, and swaps the rebuilt snapshot into the
// store. A feed that fails to decode leaves the active snapshot
// untouched.
type Watcher struct {
	path    string
	store   *graph.Store
	log     *slog.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
	// called after every successful swap, used for metrics
	OnSwap func(version int64)
}

func NewWatcher(path string, store *graph.Store, log *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// watch the directory: feeds are typically replaced by rename,
	// which drops a watch placed on the file itself
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		path:    path,
		store:   store,
		log:     log,
		watcher: fsw,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (self *Watcher) Close() {
	close(self.done)
	self.watcher.Close()
}

func (self *Watcher) run() {
	var debounce *time.Timer
	for {
		select {
		case <-self.done:
			return
		case event, ok := <-self.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(self.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			// writers emit bursts of events, reload once they settle
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(500*time.Millisecond, self.reload)
		case err, ok := <-self.watcher.Errors:
			if !ok {
				return
			}
			self.log.Error("feed watcher error", "error", err)
		}
	}
}

func (self *Watcher) reload() {
	g, err := LoadNetworkFile(self.path)
	if err != nil {
		self.log.Error("network feed reload rejected", "path", self.path, "error", err)
		return
	}
	version := self.store.Swap(g)
	self.log.Info("network snapshot swapped",
		"version", version, "nodes", g.NodeCount(), "edges", g.EdgeCount())
	if self.OnSwap != nil {
		self.OnSwap(version)
	}
}
