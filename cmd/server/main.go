// Package main starts the Lumina edge service: it loads configuration,
// sets up logging and PostgreSQL, and serves the credential and asset
// endpoints over HTTP or HTTPS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/lumina/internal/config"
	"github.com/atinyakov/lumina/internal/db"
	"github.com/atinyakov/lumina/internal/logger"
	"github.com/atinyakov/lumina/internal/repository"
	"github.com/atinyakov/lumina/internal/server/handler/http"
	"github.com/atinyakov/lumina/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	configPath := flag.String("c", "", "path to config file")
	flag.Parse()

	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	options, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(options.Log); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	if options.Server.DatabaseDSN == "" {
		zapLogger.Fatal("server.database_dsn is required")
	}
	if options.Remote.SecretKey == "" {
		zapLogger.Warn("remote.secret_key is empty, uploads are disabled")
	}

	postgresDB, err := db.InitPostgres(options.Server.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	assetRepo := repository.NewPostgresAssetRepository(postgresDB)

	authService := service.NewAuthService(authRepo)
	assetService := service.NewAssetService(assetRepo)

	authHandler := &http.AuthHandler{AuthService: authService, Logger: zapLogger}
	assetHandler := &http.AssetHandler{
		AssetService: assetService,
		PublicURL:    options.Server.PublicURL,
		MaxBytes:     options.Server.MaxUploadBytes,
		Logger:       zapLogger,
	}

	router := http.NewRouter(authHandler, assetHandler, options.Remote.SecretKey, zapLogger)

	server := &nethttp.Server{
		Addr:              options.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	tlsEnabled := options.Server.TLSCert != "" && options.Server.TLSKey != ""
	if tlsEnabled {
		cert, err := tls.LoadX509KeyPair(options.Server.TLSCert, options.Server.TLSKey)
		if err != nil {
			zapLogger.Fatal("failed to load server TLS cert/key", zap.Error(err))
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting server",
			zap.String("addr", server.Addr),
			zap.Bool("tls", tlsEnabled),
		)
		if tlsEnabled {
			errCh <- server.ListenAndServeTLS("", "")
		} else {
			errCh <- server.ListenAndServe()
		}
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}
