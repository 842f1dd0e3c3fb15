package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cognicore/tweetcloud/internal/server"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud"
	"github.com/cognicore/tweetcloud/pkg/tweetcloud/config"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (optional)")
		addr       = flag.String("addr", "", "Listen address (overrides server.addr)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := config.Loader{Config: cfg}
	components, err := loader.Load(ctx)
	if err != nil {
		log.Fatal("Failed to load components:", err)
	}

	engine := tweetcloud.New(tweetcloud.Options{
		Extractor: components.Extractor,
		Store:     components.Store,
		Logger:    components.Logger,
	})
	defer engine.Close()

	srv, err := server.New(server.Options{
		Engine:    engine,
		Logger:    components.Logger,
		StaticDir: cfg.Server.StaticDir,
		MaxItems:  cfg.Server.MaxItems,
	})
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		components.Logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
