package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	server "cannonade/server"
	servernet "cannonade/server/internal/net"
	"cannonade/server/logging"
	loggingsinks "cannonade/server/logging/sinks"
)

// Run wires the process together: configuration, logging, the room registry
// with its simulation loop, and the HTTP surface. It blocks until ctx is
// cancelled, then shuts the server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := server.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}
	cfg = applyEnvOverrides(cfg)

	sinks, jsonFile, err := buildSinks(cfg.Log)
	if err != nil {
		return err
	}
	if jsonFile != nil {
		defer jsonFile.Close()
	}

	logConfig := logging.DefaultConfig()
	logConfig.EnabledSinks = cfg.Log.Sinks
	router := logging.NewRouter(logging.SystemClock{}, logConfig, sinks)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			log.Printf("failed to close logging router: %v", cerr)
		}
	}()

	registry := server.NewRegistry(router)
	stop := make(chan struct{})
	go registry.RunSimulation(stop)
	defer close(stop)

	clientDir := cfg.ClientDir
	if clientDir == "" {
		if resolved, rerr := server.ResolveClientAssetsDir(); rerr == nil {
			clientDir = resolved
		} else {
			log.Printf("serving without static assets: %v", rerr)
		}
	}

	handler := servernet.NewHTTPHandler(registry, servernet.HTTPHandlerConfig{
		ClientDir: clientDir,
		Logger:    log.Default(),
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("server listening on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg server.Config) server.Config {
	if addr := os.Getenv("ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if dir := os.Getenv("CLIENT_DIR"); dir != "" {
		cfg.ClientDir = dir
	}
	if raw := os.Getenv("LOG_SINKS"); raw != "" {
		sinks := make([]string, 0, 2)
		for _, name := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(name); trimmed != "" {
				sinks = append(sinks, trimmed)
			}
		}
		if len(sinks) > 0 {
			cfg.Log.Sinks = sinks
		}
	}
	if path := os.Getenv("LOG_JSON_PATH"); path != "" {
		cfg.Log.JSONPath = path
	}
	return cfg.Normalized()
}

func buildSinks(cfg server.LogConfig) ([]logging.NamedSink, *os.File, error) {
	var sinks []logging.NamedSink
	var jsonFile *os.File
	for _, name := range cfg.Sinks {
		switch name {
		case "console":
			sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingsinks.NewConsoleSink(os.Stdout)})
		case "json":
			path := cfg.JSONPath
			if path == "" {
				path = "events.ndjson"
			}
			file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, fmt.Errorf("open json log: %w", err)
			}
			jsonFile = file
			sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingsinks.NewJSONSink(file, 2*time.Second)})
		default:
			log.Printf("unknown log sink %q ignored", name)
		}
	}
	return sinks, jsonFile, nil
}
