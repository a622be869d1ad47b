// README: Entry point; loads config, wires services, starts HTTP server and the stale-ride monitor.
package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hail/internal/config"
	httptransport "hail/internal/http"
	"hail/internal/infra"
	"hail/internal/logging"
	"hail/internal/modules/chat"
	"hail/internal/modules/fare"
	"hail/internal/modules/location"
	"hail/internal/modules/ride"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Error("db init failed", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	traffic := fare.NewRandomSource(rand.New(rand.NewSource(time.Now().UnixNano())))
	fareSvc := fare.NewService(traffic)

	rideStore := ride.NewStore(dbPool)
	rideSvc := ride.NewService(rideStore, fareSvc, log)

	chatStore := chat.NewStore(dbPool)
	chatSvc := chat.NewService(chatStore, rideStore)

	locationStore := location.NewStore(dbPool, redisClient)
	locationSvc := location.NewService(locationStore)

	handler := httptransport.NewRouter(httptransport.ServerDeps{
		Rides:     rideSvc,
		Chat:      chatSvc,
		Location:  locationSvc,
		JWTSecret: cfg.Auth.JWTSecret,
		Log:       log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go rideSvc.RunStaleMonitor(ctx, cfg.Stale)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
