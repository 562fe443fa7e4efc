package handler

import "github.com/gofiber/fiber/v2"

// Handlers groups every HTTP handler of the interchange API.
type Handlers struct {
	Import   *ImportHandler
	Export   *ExportHandler
	Snapshot *SnapshotHandler
	Health   *HealthHandler
}

// RegisterRoutes mounts the interchange endpoints on r.
func RegisterRoutes(r fiber.Router, h Handlers) {
	importGroup := r.Group("/import")
	importGroup.Post("/subject", h.Import.ImportSubjects)
	importGroup.Post("/category", h.Import.ImportCategories)
	importGroup.Post("/quiz", h.Import.ImportQuizzes)
	importGroup.Post("/flashcard", h.Import.ImportFlashcards)
	importGroup.Post("/user", h.Import.ImportUsers)
	importGroup.Post("/flashcards/json", h.Import.ImportFlashcardsJSON)
	importGroup.Post("/images", h.Import.ImportImages)
	importGroup.Post("/database", h.Snapshot.ReplaceDatabase)

	exportGroup := r.Group("/export")
	exportGroup.Get("/json", h.Export.ExportJSON)
	exportGroup.Get("/images", h.Export.ExportImages)
	exportGroup.Get("/database", h.Export.ExportDatabase)

	r.Get("/health", h.Health.Health)
}
