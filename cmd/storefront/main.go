package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/storefront/config"
	"github.com/talkincode/storefront/internal/adminapi"
	"github.com/talkincode/storefront/internal/app"
	"github.com/talkincode/storefront/internal/webserver"
)

var (
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop the stored catalog, restore the seed data and exit")
	showconf = flag.Bool("showconf", false, "print the effective config and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*conffile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *showconf {
		fmt.Printf("%+v\n", *cfg)
		return
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		if err := application.InitDb(); err != nil {
			zap.S().Error(err)
			return
		}
		zap.S().Info("catalog restored to seed data")
		return
	}

	webserver.Init(cfg, application)
	adminapi.Init()

	var g errgroup.Group
	g.Go(webserver.Listen)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		zap.S().Infof("received %s, shutting down", s)
		if err := webserver.Shutdown(); err != nil {
			zap.S().Error(err)
		}
	}()

	if err := g.Wait(); err != nil {
		zap.S().Error(err)
	}
}
