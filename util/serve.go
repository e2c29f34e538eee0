package util

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/reconquest/karma-go"
	"github.com/reconquest/pkg/log"
	"github.com/urfave/cli/v3"
)

var (
	debounceDelay   = 300 * time.Millisecond
	shutdownTimeout = 5 * time.Second
)

func RunServe(ctx context.Context, cmd *cli.Command) error {
	if err := setupLogging(cmd); err != nil {
		return err
	}

	logConfig(cmd)

	return Serve(ctx, OptionsFromCommand(cmd), cmd.String("listen"))
}

// Serve builds the site, serves opts.Out on listen and rebuilds whenever
// something below opts.Docs changes. It returns when ctx is done.
func Serve(ctx context.Context, opts Options, listen string) error {
	out, err := filepath.Abs(opts.Out)
	if err != nil {
		return karma.Format(err, "unable to resolve output directory %q", opts.Out)
	}

	listener, err := net.Listen("tcp", listen)
	if err != nil {
		return karma.Format(err, "unable to listen on %q", listen)
	}

	ctx, cancel := context.WithCancel(ctx)

	var workers sync.WaitGroup
	defer func() {
		cancel()
		workers.Wait()
	}()

	server := &http.Server{
		Handler: NewHandler(opts.Out),
	}

	serveErr := make(chan error, 1)

	workers.Add(1)
	go func() {
		defer workers.Done()

		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	defer shutdown(server)

	log.Infof(nil, "preview server listening on http://%s", listener.Addr())

	rebuild := func() {
		report, err := Build(ctx, opts)
		if err != nil {
			log.Errorf(err, "build failed")
			return
		}

		log.Infof(nil, "site rebuilt: %d pages, %d failed", report.Pages, report.Failed)
	}

	rebuild()

	watcher, err := setupFileWatcher(opts.Docs)
	if err != nil {
		return err
	}
	defer watcher.Close()

	rebuildReq, trigger := newDebouncer(debounceDelay)

	workers.Add(1)
	go func() {
		defer workers.Done()
		rebuildWorker(ctx, rebuildReq, rebuild)
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down preview server")

			return nil

		case err := <-serveErr:
			return karma.Format(err, "preview server failed on %q", listen)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			handleFileEvent(watcher, event, out, trigger)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.Warningf(err, "file watcher")
		}
	}
}

func shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		log.Warningf(err, "preview server shutdown")
	}
}

// NewHandler serves the built site from root. Paths without an extension
// are resolved to the matching .html file, so /guide/x serves guide/x.html.
func NewHandler(root string) http.Handler {
	files := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urlPath := path.Clean("/" + r.URL.Path)

		if !strings.HasSuffix(r.URL.Path, "/") && path.Ext(urlPath) == "" {
			candidate := filepath.Join(root, filepath.FromSlash(urlPath)+".html")

			stat, err := os.Stat(candidate)
			if err == nil && !stat.IsDir() {
				http.ServeFile(w, r, candidate)
				return
			}
		}

		files.ServeHTTP(w, r)
	})
}

func setupFileWatcher(docs string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, karma.Format(err, "unable to create file watcher")
	}

	err = addDirsRecursive(watcher, docs)
	if err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return watcher, nil
}

// newDebouncer returns a channel receiving at most one pending request and
// a trigger that fires it once no further trigger happened for delay.
func newDebouncer(delay time.Duration) (chan struct{}, func()) {
	var (
		mutex sync.Mutex
		timer *time.Timer
	)

	requests := make(chan struct{}, 1)

	trigger := func() {
		mutex.Lock()
		defer mutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(delay, func() {
			select {
			case requests <- struct{}{}:
			default:
			}
		})
	}

	return requests, trigger
}

func rebuildWorker(ctx context.Context, requests <-chan struct{}, rebuild func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-requests:
			log.Info("change detected, rebuilding site")
			rebuild()
		}
	}
}

func handleFileEvent(watcher *fsnotify.Watcher, event fsnotify.Event, out string, trigger func()) {
	if shouldIgnoreEvent(event.Name, out) {
		return
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		stat, err := os.Stat(event.Name)
		if err == nil && stat.IsDir() {
			_ = addDirsRecursive(watcher, event.Name)
		}
	}

	log.Debugf(nil, "file change detected: %s %s", event.Op, event.Name)

	trigger()
}

func addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(dir string, entry os.DirEntry, err error) error {
		if err != nil {
			return karma.Format(err, "unable to walk %q", dir)
		}

		if !entry.IsDir() {
			return nil
		}

		err = watcher.Add(dir)
		if err != nil {
			log.Warningf(err, "unable to watch %q", dir)
		}

		return nil
	})
}

// shouldIgnoreEvent skips hidden and editor files and anything written to
// the output directory.
func shouldIgnoreEvent(name string, out string) bool {
	if out != "" {
		abs, err := filepath.Abs(name)
		if err == nil && (abs == out || strings.HasPrefix(abs, out+string(filepath.Separator))) {
			return true
		}
	}

	base := filepath.Base(name)

	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}

	return false
}
