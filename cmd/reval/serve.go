package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/reval-dev/reval/pkg/instrument"
	"github.com/reval-dev/reval/pkg/reval"
)

func serveCmd() *cobra.Command {
	var addr string
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo server",
		Long: `Serves a simulated temperature signal with two derived projections.
Clients can poll /state, stream updates over /ws, and scrape recompute
metrics from /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, interval)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&interval, "interval", 500*time.Millisecond, "mutation interval")
	return cmd
}

// demoState is the JSON shape sent to /state and /ws clients.
type demoState struct {
	Celsius    float64 `json:"celsius"`
	Fahrenheit float64 `json:"fahrenheit"`
	Label      string  `json:"label"`
	Version    uint64  `json:"version"`
}

// demo wires a source signal to its derived projections.
type demo struct {
	celsius    *reval.Signal[float64]
	fahrenheit *reval.Derived[float64, float64]
	label      *reval.Derived[float64, string]
}

func newDemo(collector *instrument.Collector) *demo {
	celsius := reval.NewSignal(20.0)
	return &demo{
		celsius: celsius,
		fahrenheit: reval.Derive(celsius, func(c float64) float64 {
			return c*9/5 + 32
		}, reval.WithName("fahrenheit"), reval.WithObserver(collector)),
		label: reval.Derive(celsius, func(c float64) string {
			switch {
			case c < 10:
				return "cold"
			case c < 25:
				return "mild"
			default:
				return "hot"
			}
		}, reval.WithName("label"), reval.WithObserver(collector)),
	}
}

// state reads the projections; recomputation happens here, on read.
func (d *demo) state() demoState {
	return demoState{
		Celsius:    d.celsius.Get(),
		Fahrenheit: d.fahrenheit.Get(),
		Label:      d.label.Get(),
		Version:    d.celsius.Version(),
	}
}

// drift mutates the source signal in place until ctx is done.
func (d *demo) drift(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.celsius.With(func(c *float64) {
				*c += rand.Float64()*2 - 1
			})
		}
	}
}

func runServe(addr string, interval time.Duration) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	collector := instrument.NewCollector()
	d := newDemo(collector)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go d.drift(ctx, interval)

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/state", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(d.state()); err != nil {
			logger.Error("encode state", "error", err)
		}
	})

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			logger.Error("websocket upgrade", "error", err)
			return
		}
		go streamState(ctx, conn, d, interval, logger)
	})

	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("demo server listening", "addr", addr, "interval", interval)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("demo server stopped")
	return nil
}

// streamState pushes the current state to a WebSocket client at the
// mutation interval. The client only ever pays for recomputation when a
// value is actually read for sending.
func streamState(ctx context.Context, conn *websocket.Conn, d *demo, interval time.Duration, logger *slog.Logger) {
	defer conn.Close()

	// Drain client frames so close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteJSON(d.state()); err != nil {
				if websocket.IsUnexpectedCloseError(err,
					websocket.CloseGoingAway,
					websocket.CloseAbnormalClosure,
					websocket.CloseNormalClosure) {
					logger.Error("websocket write", "error", err)
				}
				return
			}
		}
	}
}
