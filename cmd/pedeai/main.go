package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/pedeai/config"
	"github.com/talkincode/pedeai/internal/app"
	"github.com/talkincode/pedeai/internal/storeapi"
	"github.com/talkincode/pedeai/internal/webserver"
	"github.com/talkincode/pedeai/internal/whatsapp"
)

var (
	configFile = flag.String("c", "/etc/pedeai.yml", "config file")
	showVer    = flag.Bool("v", false, "print version")
	initDb     = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("pedeai", version)
		return
	}

	cfg := config.LoadConfig(*configFile)

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	// warm the catalog before serving; a cold CMS is not fatal, the first
	// page request retries
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := application.Catalog().Refresh(ctx); err != nil {
		zap.L().Warn("initial catalog refresh failed", zap.Error(err))
	}
	cancel()

	storeapi.InitRouter()
	server := webserver.NewWebServer(application)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(rootCtx)

	g.Go(func() error {
		return server.Start()
	})

	if cfg.WhatsApp.Enable {
		waSvc, err := whatsapp.New(cfg.WhatsApp)
		if err != nil {
			zap.L().Error("whatsapp service init failed", zap.Error(err))
		} else {
			g.Go(func() error {
				return waSvc.Start(gctx)
			})
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Echo().Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("server stopped", zap.Error(err))
	}
}
