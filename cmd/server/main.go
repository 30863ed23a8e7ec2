package main

import (
	"site-lock-system/internal/config"
	"site-lock-system/internal/database"
	"site-lock-system/internal/observability/metrics"
	"site-lock-system/internal/server"
	"site-lock-system/internal/service"
	"site-lock-system/internal/util"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}

	exporter, err := service.NewSheetExporter(cfg.Sheets)
	if err != nil {
		// Export is best-effort; the service still runs without it.
		log.WithError(err).Warn("sheet export disabled")
		exporter = nil
	}

	feed := service.NewFeed()
	activity := service.NewActivityService(db, feed, exporter, log)
	keys := service.NewKeyService(db, activity, log)
	tokens := util.NewTokenManager(cfg.JWTSecret)

	metrics.MustRegister()

	app := server.NewApp(server.Deps{
		DB:       db,
		Log:      log,
		Tokens:   tokens,
		Keys:     keys,
		Activity: activity,
		Feed:     feed,
	})

	log.WithField("addr", cfg.HTTPAddr).Info("starting server")
	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
