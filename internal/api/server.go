package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"studytrack/internal/model"
	"studytrack/internal/store"
)

// Config wraps the knobs that impact runtime behavior.
type Config struct {
	Addr string

	// OwnerID scopes every request to one owner. The contract threads an
	// explicit owner through each store call, so multi-user support is a
	// transport change only.
	OwnerID int64
}

// Server exposes the Fiber application over the storage contract.
type Server struct {
	app   *fiber.App
	store store.Store
	cfg   Config
	log   store.Logger
}

// NewServer wires handlers and middleware.
func NewServer(cfg Config, st store.Store, log store.Logger) *Server {
	if log == nil {
		log = store.NewNopLogger()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          jsonErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Format: "${time} | ${status} | ${latency} | ${method} ${path}\n"}))
	app.Use(cors.New())

	srv := &Server{app: app, store: st, cfg: cfg, log: log}
	srv.registerRoutes()
	return srv
}

// Run starts listening for HTTP traffic until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	s.log.Info("listening", "addr", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

// App returns the underlying Fiber app. Used by tests via app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := s.app.Group("/api")
	api.Get("/study-materials", s.handleListStudyMaterials)
	api.Post("/study-materials", s.handleCreateStudyMaterial)
	api.Delete("/study-materials/:id", s.handleDeleteStudyMaterial)

	api.Get("/reminders", s.handleListReminders)
	api.Post("/reminders", s.handleCreateReminder)
	api.Patch("/reminders/:id", s.handleUpdateReminder)
	api.Delete("/reminders/:id", s.handleDeleteReminder)

	api.Get("/diary-entries", s.handleListDiaryEntries)
	api.Post("/diary-entries", s.handleCreateDiaryEntry)
	api.Delete("/diary-entries/:id", s.handleDeleteDiaryEntry)

	api.Get("/mood-entries", s.handleListMoodEntries)
	api.Post("/mood-entries", s.handleCreateMoodEntry)
}

// jsonErrorHandler keeps every response JSON, including errors produced by
// middleware and fiber.NewError.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}

// fail maps store and validation errors onto status codes: input problems
// are the caller's fault (400), an absent record on update is 404, anything
// else is a server fault (500).
func (s *Server) fail(c *fiber.Ctx, op string, err error) error {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": verr.Error()})
	}

	var nferr *store.NotFoundError
	if errors.As(err, &nferr) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": nferr.Error()})
	}

	s.log.Error(op, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to " + op})
}
