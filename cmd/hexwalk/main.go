// Command hexwalk generates a hex-grid heightmap by a ring-by-ring random walk
// and prints the (x, y, height) triples as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/ncruces/go-strftime"

	"github.com/talgya/hexwalk/internal/api"
	"github.com/talgya/hexwalk/internal/config"
	"github.com/talgya/hexwalk/internal/entropy"
	"github.com/talgya/hexwalk/internal/persistence"
	"github.com/talgya/hexwalk/internal/world"
)

func main() {
	configPath := flag.String("config", "hexwalk.yaml", "path to YAML config")
	listRuns := flag.Int("runs", 0, "list the N most recent archived runs and exit")
	quiet := flag.Bool("quiet", false, "do not print the generated points")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Logs go to stderr; stdout carries the generated points.
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	// ── Archive ───────────────────────────────────────────────────────
	var db *persistence.DB
	if cfg.Storage.Path != "" {
		db, err = persistence.Open(cfg.Storage.Path)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		slog.Info("database opened", "path", cfg.Storage.Path)
	}

	if *listRuns > 0 {
		if db == nil {
			slog.Error("run listing needs storage.path or HEXWALK_DB")
			os.Exit(1)
		}
		if err := printRuns(os.Stdout, db, *listRuns); err != nil {
			slog.Error("failed to list runs", "error", err)
			os.Exit(1)
		}
		return
	}

	// ── Terrain ───────────────────────────────────────────────────────
	gen, err := cfg.GenConfig()
	if err != nil {
		slog.Error("invalid generation config", "error", err)
		os.Exit(1)
	}
	configuredSeed := gen.Seed
	if gen.Seed == 0 {
		gen.Seed = entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY")).Seed()
	}

	slog.Info("generating terrain",
		"iterations", gen.Iterations,
		"stay_prob", gen.StayProb,
		"step_size", gen.StepSize,
		"seed", gen.Seed,
		"color_mode", gen.ColorMode,
	)
	m, err := world.Generate(gen)
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	stats := world.Summarize(m)
	slog.Info("terrain ready",
		"hexes", humanize.Comma(int64(stats.Hexes)),
		"min_height", stats.MinHeight,
		"max_height", stats.MaxHeight,
		"mean_height", fmt.Sprintf("%.3f", stats.MeanHeight),
		"stay_fraction", fmt.Sprintf("%.3f", stats.StayFraction),
	)

	if db != nil {
		run, err := db.SaveRun(gen, m)
		if err != nil {
			slog.Error("archive failed", "error", err)
		} else {
			slog.Info("run archived", "id", run.ID)
		}
	}

	if !*quiet {
		if err := writePoints(os.Stdout, world.Points(m, gen.PixelSize)); err != nil {
			slog.Error("failed to write points", "error", err)
			os.Exit(1)
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		return
	}
	apiServer := &api.Server{
		Gen:           gen,
		Lights:        cfg.Lights(),
		DB:            db,
		Port:          cfg.Server.Port,
		MaxIterations: cfg.Server.MaxIterations,
		RateLimit:     cfg.Server.RateLimit,
	}
	// An unseeded config keeps drawing fresh seeds per request.
	apiServer.Gen.Seed = configuredSeed
	apiServer.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("received signal, shutting down", "signal", sig)
	if err := apiServer.Stop(); err != nil {
		slog.Error("server close failed", "error", err)
	}
}

// writePoints emits [[x, y, height], ...] like a plain list of triples.
func writePoints(w io.Writer, pts []world.Point) error {
	triples := make([][3]float64, len(pts))
	for i, p := range pts {
		triples[i] = [3]float64{p.X, p.Y, p.Height}
	}
	return json.NewEncoder(w).Encode(triples)
}

func printRuns(w io.Writer, db *persistence.DB, limit int) error {
	runs, err := db.ListRuns(limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  iterations=%d seed=%d stay=%.2f step=%.2f hexes=%s (%s)\n",
			r.ID,
			strftime.Format("%Y-%m-%d %H:%M:%S", r.CreatedAt.Local()),
			r.Iterations, r.Seed, r.StayProb, r.StepSize,
			humanize.Comma(int64(r.HexCount)),
			humanize.Time(r.CreatedAt),
		)
	}
	return nil
}
