// Package app wires configuration, the pipeline and the preview server into
// a running slideshow.
package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/dmitrijs2005/photocast/internal/artifact"
	"github.com/dmitrijs2005/photocast/internal/castclient"
	"github.com/dmitrijs2005/photocast/internal/codec"
	"github.com/dmitrijs2005/photocast/internal/common"
	"github.com/dmitrijs2005/photocast/internal/config"
	"github.com/dmitrijs2005/photocast/internal/cryptox"
	"github.com/dmitrijs2005/photocast/internal/device"
	"github.com/dmitrijs2005/photocast/internal/logging"
	"github.com/dmitrijs2005/photocast/internal/models"
	"github.com/dmitrijs2005/photocast/internal/pipeline"
)

// Run executes the slideshow until the stream ends, a fatal pipeline error
// escalates, or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logging.New(parseLevel(cfg.LogLevel))

	key, err := collectionKey(cfg)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(key)

	session := models.CastSession{CollectionKey: key, CastToken: cfg.CastToken}

	engine := cryptox.NewEngine(1)
	defer engine.Close()

	codecs := codec.NewService(1)
	defer codecs.Close()

	caps := device.StaticProfile{
		HEICDecode: cfg.DeviceCanHEIC,
		Width:      cfg.MaxWidth,
		Height:     cfg.MaxHeight,
	}

	client := castclient.NewHTTPClient(cfg.APIBaseURL, cfg.CastToken, nil)

	sched := pipeline.NewScheduler(
		session,
		pipeline.NewFetcher(client, log),
		pipeline.NewDecryptor(engine),
		pipeline.NewMaterializer(client, engine, codecs, caps, log),
		log,
		pipeline.WithSlideDurations(cfg.SlideDuration, cfg.FirstSlideDuration),
	)

	var current atomic.Pointer[artifact.Artifact]

	srv := &http.Server{
		Addr:    cfg.PreviewAddr,
		Handler: previewRouter(&current),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer srv.Shutdown(context.Background()) //nolint:errcheck
		return consume(gCtx, sched, &current, log)
	})

	g.Go(func() error {
		log.Info(gCtx, "preview server listening", "addr", cfg.PreviewAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// consume is the reference consumer: it pulls slides one at a time and
// publishes the current one to the preview server. The scheduler owns slide
// release; the last displayed slide is released here at stream end.
func consume(ctx context.Context, sched *pipeline.Scheduler, current *atomic.Pointer[artifact.Artifact], log logging.Logger) error {
	defer func() {
		if art := current.Load(); art != nil {
			art.Release()
		}
	}()

	for {
		art, err := sched.Next(ctx)
		if err != nil {
			if errors.Is(err, common.ErrStreamEnded) {
				log.Info(ctx, "slideshow ended")
				return nil
			}
			if errors.Is(err, common.ErrAuthExpired) {
				log.Error(ctx, "re-pairing required", "error", err)
			}
			return err
		}

		current.Store(art)
		log.Info(ctx, "displaying slide",
			"artifact", art.ID, "content_type", art.ContentType, "bytes", art.Size())
	}
}

func previewRouter(current *atomic.Pointer[artifact.Artifact]) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/slide", func(w http.ResponseWriter, _ *http.Request) {
		art := current.Load()
		if art == nil || art.Released() {
			http.Error(w, "no slide yet", http.StatusNotFound)
			return
		}
		data := art.Bytes()
		if data == nil {
			http.Error(w, "slide gone", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", art.ContentType)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(data)
	})

	return r
}

// collectionKey resolves the collection key from config, falling back to an
// interactive terminal prompt so the secret can stay out of files.
func collectionKey(cfg *config.Config) ([]byte, error) {
	encoded := cfg.CollectionKeyB64
	if encoded == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, errors.New("collection key not configured and stdin is not a terminal")
		}
		fmt.Fprint(os.Stderr, "Collection key (base64): ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("reading collection key: %w", err)
		}
		encoded = strings.TrimSpace(string(raw))
	}

	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("collection key is not valid base64: %w", err)
	}
	if len(key) != cryptox.KeySize {
		return nil, fmt.Errorf("collection key must be %d bytes, got %d", cryptox.KeySize, len(key))
	}
	return key, nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
