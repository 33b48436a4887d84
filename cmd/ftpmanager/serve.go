package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"

	"vsftpd-manager/internal/config"
	"vsftpd-manager/internal/daemonconf"
	"vsftpd-manager/internal/handlers"
	"vsftpd-manager/internal/metrics"
	"vsftpd-manager/internal/probe"
	"vsftpd-manager/internal/supervisor"
	"vsftpd-manager/internal/users"
	"vsftpd-manager/internal/xferlog"
)

func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the management HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the manager config file")
	return cmd
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	for _, p := range []string{cfg.UserMetaDBPath, cfg.DesiredConfigPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return err
		}
	}

	sup := supervisor.New(cfg.RestartCommand, cfg.CommandTimeout())

	var meta *users.MetadataRepository
	if m, err := users.NewMetadata(cfg.UserMetaDBPath); err != nil {
		log.Printf("user metadata db unavailable, serving defaults: %v", err)
	} else {
		meta = m
		defer meta.Close()
	}

	userStore := &users.Store{
		FilePath:       cfg.VirtualUsersFile,
		DBPath:         cfg.VirtualUsersDB,
		HomeBase:       cfg.FTPHomeBase,
		DefaultQuotaMB: cfg.DefaultQuotaMB,
		Runner:         sup,
		Meta:           meta,
	}

	logSvc := xferlog.NewService(xferlog.FileSource{Path: cfg.LogPath}, cfg.Window(), cfg.FTPHomeBase)
	desiredStore := daemonconf.Store{Path: cfg.DesiredConfigPath}
	reconciler := &daemonconf.Reconciler{
		File:       daemonconf.File{Path: cfg.DaemonConfPath},
		Supervisor: sup,
	}

	var prober *probe.Prober
	if cfg.Probe.Addr != "" {
		prober = &probe.Prober{
			Addr:     cfg.Probe.Addr,
			User:     cfg.Probe.User,
			Password: cfg.Probe.Password,
			Timeout:  time.Duration(cfg.Probe.TimeoutSec) * time.Second,
		}
	}

	dh := &handlers.DashboardHandler{
		Logs:        logSvc,
		Users:       userStore,
		Desired:     desiredStore,
		HomeBase:    cfg.FTPHomeBase,
		ProcessName: "vsftpd",
	}
	uh := &handlers.UsersHandler{Store: userStore}
	ch := &handlers.ConfigHandler{Store: desiredStore, Reconciler: reconciler}
	lh := &handlers.LogsHandler{Logs: logSvc, LogPath: cfg.LogPath}
	hh := &handlers.HealthHandler{Prober: prober}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/api/dashboard/stats", dh.Stats)
	r.Get("/api/dashboard/recent-users", dh.RecentUsers)
	r.Get("/api/users", uh.List)
	r.Post("/api/users", uh.Create)
	r.Delete("/api/users/{username}", uh.Delete)
	r.Get("/api/config", ch.Get)
	r.Post("/api/config", ch.Update)
	r.Get("/api/logs/vsftpd", lh.Raw)
	r.Get("/api/logs/vsftpd/follow", lh.Follow)
	r.Get("/healthz", hh.Healthz)
	r.Handle("/metrics", metrics.Handler())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // the follow stream stays open
	}

	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		defer close(shutdownDone)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("ftpmanager listening on %s", cfg.Listen)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone
	return nil
}
