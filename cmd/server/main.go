package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"hexcraft.ai/internal/persistence/indexdb"
	persistlog "hexcraft.ai/internal/persistence/log"
	"hexcraft.ai/internal/protocol"
	"hexcraft.ai/internal/sim/catalogs"
	"hexcraft.ai/internal/sim/scenario"
	"hexcraft.ai/internal/sim/tuning"
	"hexcraft.ai/internal/sim/world"
	"hexcraft.ai/internal/transport/ws"
)

type runtimeMetrics struct {
	height     atomic.Uint64
	units      atomic.Int64
	structures atomic.Int64
	stepMicros atomic.Int64
	kills      atomic.Uint64
}

func main() {
	var (
		addr         = flag.String("addr", ":8080", "http listen address")
		scenarioPath = flag.String("scenario", "./configs/scenarios/frontier.yaml", "scenario to run")
		configDir    = flag.String("configs", "./configs", "config directory")
		dataDir      = flag.String("data", "./data", "runtime data directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB    = flag.Bool("disable_db", false, "disable the sqlite step index")
		maxSteps     = flag.Uint64("max_steps", 0, "stop after this many steps (0 = run until signalled)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Default()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		logger.Fatalf("load scenario: %v", err)
	}
	w, err := scenario.Build(sc, cats, tune)
	if err != nil {
		logger.Fatalf("build world: %v", err)
	}
	worldID := w.Config().ID

	worldDir := filepath.Join(*dataDir, "worlds", worldID)
	_ = os.MkdirAll(worldDir, 0o755)

	stepLog, err := persistlog.NewStepLogger(worldDir)
	if err != nil {
		logger.Fatalf("open step log: %v", err)
	}
	defer stepLog.Close()

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(worldDir, "index.db"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		if err := idx.UpsertCatalogs(cats, tune); err != nil {
			logger.Printf("index: upsert catalogs: %v", err)
		}
		// The step log is truncated on startup and the world re-runs
		// from height 1, so the index must not keep rows from the
		// previous run.
		if err := idx.ResetRun(); err != nil {
			logger.Fatalf("index: reset run: %v", err)
		}
	}

	hub := ws.NewHub(worldID, 4096)
	wsSrv := ws.NewServer(hub, tune.TickRateHz, protocol.CatalogDigests{
		UnitsDigest:      cats.UnitsDigest,
		StructuresDigest: cats.StructuresDigest,
	}, logger)

	ctx, cancel := signalContext()
	defer cancel()

	var m runtimeMetrics
	m.units.Store(int64(len(w.Units)))
	m.structures.Store(int64(len(w.Structures)))

	go runLoop(ctx, w, tune.TickRateHz, *maxSteps, stepLog, idx, hub, &m, logger, cancel)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")

		// Minimal Prometheus exposition format.
		fmt.Fprintf(rw, "# HELP hexcraft_world_height Current world step height.\n")
		fmt.Fprintf(rw, "# TYPE hexcraft_world_height gauge\n")
		fmt.Fprintf(rw, "hexcraft_world_height{world=%q} %d\n", worldID, m.height.Load())

		fmt.Fprintf(rw, "# HELP hexcraft_world_units Living units.\n")
		fmt.Fprintf(rw, "# TYPE hexcraft_world_units gauge\n")
		fmt.Fprintf(rw, "hexcraft_world_units{world=%q} %d\n", worldID, m.units.Load())

		fmt.Fprintf(rw, "# HELP hexcraft_world_structures Standing structures.\n")
		fmt.Fprintf(rw, "# TYPE hexcraft_world_structures gauge\n")
		fmt.Fprintf(rw, "hexcraft_world_structures{world=%q} %d\n", worldID, m.structures.Load())

		fmt.Fprintf(rw, "# HELP hexcraft_world_kills_total Entities destroyed since start.\n")
		fmt.Fprintf(rw, "# TYPE hexcraft_world_kills_total counter\n")
		fmt.Fprintf(rw, "hexcraft_world_kills_total{world=%q} %d\n", worldID, m.kills.Load())

		fmt.Fprintf(rw, "# HELP hexcraft_world_step_ms Last step duration in milliseconds.\n")
		fmt.Fprintf(rw, "# TYPE hexcraft_world_step_ms gauge\n")
		fmt.Fprintf(rw, "hexcraft_world_step_ms{world=%q} %.3f\n", worldID, float64(m.stepMicros.Load())/1000)

		if idx != nil {
			st := idx.Stats()
			fmt.Fprintf(rw, "# HELP hexcraft_index_dropped_steps_total Step reports dropped by the indexer.\n")
			fmt.Fprintf(rw, "# TYPE hexcraft_index_dropped_steps_total counter\n")
			fmt.Fprintf(rw, "hexcraft_index_dropped_steps_total{world=%q} %d\n", worldID, st.DropStepTotal)
		}
	})
	if envBool("HC_ENABLE_PPROF_HTTP", false) {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	mux.HandleFunc("/v1/observer/ws", wsSrv.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("world=%s scenario=%s listening on %s", worldID, sc.ID, *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

// runLoop owns the world: all simulation state is touched only here.
func runLoop(ctx context.Context, w *world.World, tickRateHz float64, maxSteps uint64,
	stepLog *persistlog.StepLogger, idx *indexdb.SQLiteIndex, hub *ws.Hub,
	m *runtimeMetrics, logger *log.Logger, done context.CancelFunc) {

	interval := time.Duration(float64(time.Second) / tickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var steps uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		start := time.Now()
		report := w.Step()
		m.stepMicros.Store(time.Since(start).Microseconds())
		m.height.Store(report.Height)
		m.units.Store(int64(len(w.Units)))
		m.structures.Store(int64(len(w.Structures)))
		m.kills.Add(uint64(len(report.Dead)))

		if err := stepLog.WriteStep(report); err != nil {
			logger.Printf("step log: %v", err)
		}
		if idx != nil {
			_ = idx.WriteStep(report)
		}
		hub.Broadcast(report)

		if len(report.Dead) > 0 {
			logger.Printf("height=%d kills=%d drops=%d digest=%s", report.Height, len(report.Dead), len(report.Drops), report.Digest[:12])
		}

		steps++
		if maxSteps != 0 && steps >= maxSteps {
			logger.Printf("reached max_steps=%d at height=%d", maxSteps, report.Height)
			done()
			return
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}

func envBool(name string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
