package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"aquarium/internal/server"
	"aquarium/internal/sim"
)

var (
	serveAddr   string
	serveHz     float64
	serveStatic string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tank and broadcast snapshots over websocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := ParseConfig(cfgFile)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			conf.Addr = serveAddr
		}
		if cmd.Flags().Changed("hz") {
			conf.TickHz = serveHz
		}
		if cmd.Flags().Changed("static") {
			conf.Static = serveStatic
		}
		if conf.TickHz <= 0 {
			return errors.New("tick rate must be positive")
		}

		logger, err := zap.NewProduction()
		if err != nil {
			return err
		}
		defer logger.Sync()

		s, err := sim.New(conf.Tank)
		if err != nil {
			return err
		}
		hub := server.NewHub(s, time.Duration(float64(time.Second)/conf.TickHz), logger)

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.Handler())
		if conf.Static != "" {
			mux.Handle("/", http.FileServer(http.Dir(conf.Static)))
		}
		srv := &http.Server{Addr: conf.Addr, Handler: mux}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("serving tank",
			zap.String("addr", conf.Addr),
			zap.Float64("tick_hz", conf.TickHz),
			zap.Int("fish", conf.Tank.FishCount),
			zap.Int64("seed", s.Seed()))

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return hub.Run(ctx) })
		g.Go(func() error {
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "server listen address")
	serveCmd.Flags().Float64Var(&serveHz, "hz", 20, "broadcast rate in frames per second")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "directory of frontend assets to serve at /")
}
