package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "flightdesk/internal/config"
	router "flightdesk/internal/http"
	"flightdesk/internal/http/handlers"
	"flightdesk/internal/kiosk"
	"flightdesk/internal/repositories"
	"flightdesk/internal/scanner"
	"flightdesk/internal/services"

	"github.com/gin-gonic/gin"
	flag "github.com/spf13/pflag"
)

func main() {
	env := intconfig.LoadEnv()

	flag.StringVar(&env.AppAddr, "addr", env.AppAddr, "listen address")
	flag.StringVar(&env.DatasetSource, "source", env.DatasetSource, "dataset source: file, http or mysql")
	flag.StringVar(&env.DatasetPath, "dataset", env.DatasetPath, "path of database.json for the file source")
	flag.StringVar(&env.DatasetURL, "dataset-url", env.DatasetURL, "URL of database.json for the http source")
	flag.BoolVar(&env.CameraEnabled, "camera", env.CameraEnabled, "kiosk host has a camera")
	flag.BoolVar(&env.DecoderEnabled, "decoder", env.DecoderEnabled, "QR decoding is available on the kiosk page")
	flag.Parse()

	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	source, db, err := openDatasetSource(env)
	if err != nil {
		log.Fatalf("dataset source: %v", err)
	}
	if db != nil {
		defer db.Close()
	}

	loc := env.Location()
	now := func() time.Time { return time.Now().In(loc) }

	lookup := services.FlightLookupService{Source: source, Now: now}

	var (
		bridge  *scanner.PushBridge
		factory scanner.DecoderFactory
	)
	if env.DecoderEnabled {
		bridge = scanner.NewPushBridge()
		factory = bridge.NewDecoder
	}

	k := kiosk.New(kiosk.Options{
		Lookup:        lookup,
		NewDecoder:    factory,
		CameraEnabled: env.CameraEnabled,
		ViewportWidth: env.ViewportWidth,
		Now:           now,
	})

	r := router.NewRouter(env, &handlers.Handler{
		Lookup:          lookup,
		Kiosk:           k,
		Bridge:          bridge,
		ScanOpenTimeout: env.ScanOpenTimeout,
		StartTime:       time.Now(),
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go k.RunClock(ctx)

	go func() {
		log.Printf("flightdesk listening on http://localhost%s (source=%s)", env.AppAddr, source.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")

	k.StopScan(context.Background())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped cleanly")
}

func openDatasetSource(env intconfig.Env) (repositories.DatasetSource, *sql.DB, error) {
	switch env.DatasetSource {
	case intconfig.SourceHTTP:
		if env.DatasetURL == "" {
			return nil, nil, errors.New("DATASET_URL is required for the http source")
		}
		return repositories.NewHTTPDatasetRepository(env.DatasetURL), nil, nil
	case intconfig.SourceMySQL:
		db, err := intconfig.OpenMySQL(context.Background(), env.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return repositories.FlightRepository{DB: db}, db, nil
	default:
		return repositories.FileDatasetRepository{Path: env.DatasetPath}, nil, nil
	}
}
