// Package server assembles the interchange HTTP application.
package server

import (
	"time"

	"quizdeck/internal/archive"
	"quizdeck/internal/config"
	"quizdeck/internal/domain"
	"quizdeck/internal/handler"
	"quizdeck/internal/metrics"
	"quizdeck/internal/middleware"
	"quizdeck/internal/repository"
	"quizdeck/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Components are the process-level dependencies the app is built on.
type Components struct {
	Store      *repository.Store
	Locker     domain.Locker
	Supervisor domain.Supervisor
	Metrics    *metrics.Metrics
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// New wires repositories, services and handlers into a fiber app.
func New(cfg *config.Config, c Components) *fiber.App {
	repos := service.Repositories{
		Subjects:   repository.NewSubjectRepository(c.Store),
		Categories: repository.NewCategoryRepository(c.Store),
		Quizzes:    repository.NewQuizRepository(c.Store),
		Flashcards: repository.NewFlashcardRepository(c.Store),
		Users:      repository.NewUserRepository(c.Store),
	}

	importService := service.NewImportService(repos, cfg.ImagesDir(), archive.UnpackOptions{
		Workers:       cfg.Archive.ExtractWorkers,
		MaxEntryBytes: cfg.Archive.MaxEntryBytes,
	}, c.Metrics)
	exportService := service.NewExportService(repos, c.Store, service.ExportOptions{
		ImagesDir:          cfg.ImagesDir(),
		StagingDir:         cfg.StagingDir(),
		LenientUnknownKind: cfg.Export.LenientUnknownKind,
	}, c.Metrics)
	snapshotService := service.NewSnapshotService(c.Store, c.Supervisor, c.Locker, cfg.StagingDir(), cfg.Snapshot.LockTTL, c.Metrics)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.BodyLimitBytes(),
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		// download names live in Content-Disposition
		ExposeHeaders: "Content-Disposition",
		MaxAge:        300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	if c.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(c.Gatherer, promhttp.HandlerOpts{})))
	}

	handler.RegisterRoutes(app, handler.Handlers{
		Import:   handler.NewImportHandler(importService),
		Export:   handler.NewExportHandler(exportService),
		Snapshot: handler.NewSnapshotHandler(snapshotService),
		Health:   handler.NewHealthHandler(c.Store),
	})
	return app
}
