package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/anyproto/any-sync/metric"
	"go.uber.org/zap"

	"github.com/localfy/notify-server/api"
	"github.com/localfy/notify-server/auth"
	"github.com/localfy/notify-server/badge"
	"github.com/localfy/notify-server/config"
	"github.com/localfy/notify-server/db"
	"github.com/localfy/notify-server/dispatch"
	"github.com/localfy/notify-server/dispatch/provider/expo"
	"github.com/localfy/notify-server/dispatch/provider/fcm"
	"github.com/localfy/notify-server/queue"
	"github.com/localfy/notify-server/redisprovider"
	"github.com/localfy/notify-server/repo/businessrepo"
	"github.com/localfy/notify-server/repo/conversationrepo"
	"github.com/localfy/notify-server/repo/notificationrepo"
	"github.com/localfy/notify-server/repo/userrepo"
	"github.com/localfy/notify-server/resolver"
	"github.com/localfy/notify-server/trigger"

	// profiler
	_ "net/http/pprof"
)

var log = logger.NewNamed("main")

var (
	flagConfigFile = flag.String("c", "etc/notify-server.yml", "path to config file")
	flagVersion    = flag.Bool("v", false, "show version and exit")
	flagHelp       = flag.Bool("h", false, "show help and exit")
)

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Println(app.AppName)
		fmt.Println(app.Version())
		fmt.Println(app.VersionDescription())
		return
	}
	if *flagHelp {
		flag.PrintDefaults()
		return
	}

	if debug, ok := os.LookupEnv("ANYPROF"); ok && debug != "" {
		go func() {
			_ = http.ListenAndServe(debug, nil)
		}()
	}

	ctx := context.Background()
	a := new(app.App)

	conf, err := config.NewFromFile(*flagConfigFile)
	if err != nil {
		log.Fatal("can't open config file", zap.Error(err))
	}

	a.Register(conf)
	Bootstrap(a)

	if err := a.Start(ctx); err != nil {
		log.Fatal("can't start app", zap.Error(err))
	}
	log.Info("app started", zap.String("version", a.Version()))

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, os.Interrupt, syscall.SIGABRT, syscall.SIGTERM, syscall.SIGQUIT)
	sig := <-exit
	log.Info("received exit signal, stop app...", zap.String("signal", fmt.Sprint(sig)))

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := a.Close(ctx); err != nil {
		log.Fatal("close error", zap.Error(err))
	} else {
		log.Info("goodbye!")
	}
	time.Sleep(time.Second / 3)
}

func Bootstrap(a *app.App) {
	a.Register(metric.New()).
		Register(db.New()).
		Register(redisprovider.New()).
		Register(userrepo.New()).
		Register(businessrepo.New()).
		Register(conversationrepo.New()).
		Register(notificationrepo.New()).
		Register(badge.New()).
		Register(queue.New()).
		Register(resolver.New()).
		Register(dispatch.New()).
		Register(fcm.New()).
		Register(expo.New()).
		Register(auth.New()).
		Register(trigger.New()).
		Register(api.New())
}
