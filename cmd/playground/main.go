package main

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/kilianc/gsxloc/internal/gsx/logging"
	"github.com/kilianc/gsxloc/pkg/gsx/locate"
	"github.com/kilianc/gsxloc/playground"
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: playground [flags]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Watches ./playground/page.gsx and re-runs gsx --inject-source on changes.")
		_, _ = fmt.Fprintln(os.Stderr, "Unless -serve is empty, also serves the compiled page and a /locate endpoint.")
		_, _ = fmt.Fprintln(os.Stderr, "")
		flag.PrintDefaults()
	}
	interval := flag.Duration("interval", 300*time.Millisecond, "watch polling interval")
	serve := flag.String("serve", ":8080", "address to serve the page on, empty to only watch")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger, err := logging.New(os.Stderr, *level)
	if err != nil {
		fatal(err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return watchAndGenerate(ctx, logger, *interval) })
	if *serve != "" {
		eg.Go(func() error { return serveHTTP(ctx, logger, *serve) })
	}
	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
}

func watchAndGenerate(ctx context.Context, logger *log.Logger, interval time.Duration) error {
	root, err := findModuleRoot(".")
	if err != nil {
		return err
	}
	target := filepath.Join(root, "playground", "page.gsx")

	var lastHash [32]byte
	var have bool

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		src, err := os.ReadFile(target)
		if err != nil {
			logger.Warn().Err(err).Str("file", target).Msg("read failed")
		} else if h := sha256.Sum256(src); !have || h != lastHash {
			lastHash = h
			have = true

			cmd := exec.CommandContext(ctx, "go", "run", "./cmd/gsx", "--inject-source", "./playground")
			cmd.Dir = root
			cmd.Stdout = os.Stdout
			cmd.Stderr = os.Stderr
			if err := cmd.Run(); err != nil {
				logger.Error().Err(err).Msg("gsx generate failed")
			} else {
				logger.Info().Str("file", target).Msg("regenerated, restart to serve the new page")
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

var pageItems = []string{"parse", "instrument", "lower", "render"}

func newMux(logger *log.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := playground.Page("gsx playground", pageItems).Render(w); err != nil {
			logger.Error().Err(err).Msg("render failed")
		}
	})
	// /locate?selector=li reports where the matching elements come from.
	mux.HandleFunc("GET /locate", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := playground.Page("gsx playground", pageItems).Render(&buf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		els, err := locate.FromHTML(&buf, r.URL.Query().Get("selector"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		for _, el := range els {
			_, _ = fmt.Fprintf(w, "%s\t<%s>\t%s\n", el.Location, el.Tag, el.Text)
		}
	})
	return mux
}

func serveHTTP(ctx context.Context, logger *log.Logger, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	logger.Info().Str("addr", addr).Msg("serving playground")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

func findModuleRoot(start string) (string, error) {
	d, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(d, "go.mod")); err == nil {
			return d, nil
		}
		parent := filepath.Dir(d)
		if parent == d {
			return "", fmt.Errorf("could not find go.mod above %s", start)
		}
		d = parent
	}
}

func fatal(err error) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
