package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"storefront/internal/schema"
)

// SchemaHandler serves operational endpoints: database health and the
// declared schema with its consistency checks.
type SchemaHandler struct {
	db       *gorm.DB
	declared *schema.Schema
}

// NewSchemaHandler creates a new SchemaHandler.
func NewSchemaHandler(db *gorm.DB, declared *schema.Schema) *SchemaHandler {
	return &SchemaHandler{
		db:       db,
		declared: declared,
	}
}

// RegisterRoutes registers the schema routes with the Fiber router.
func (h *SchemaHandler) RegisterRoutes(router fiber.Router) {
	schemaRoutes := router.Group("/schema")
	schemaRoutes.Get("/", h.HandleGetSchema)
	schemaRoutes.Get("/check", h.HandleCheckSchema)
}

// HandleHealth pings the shared database handle.
func (h *SchemaHandler) HandleHealth(c *fiber.Ctx) error {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.UserContext())
	}
	if err != nil {
		log.Printf("Health check failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"time":   time.Now().Format(time.RFC3339),
			"error":  err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":   "healthy",
		"time":     time.Now().Format(time.RFC3339),
		"database": h.db.Dialector.Name(),
	})
}

// HandleGetSchema returns the declared tables.
func (h *SchemaHandler) HandleGetSchema(c *fiber.Ctx) error {
	return c.JSON(h.declared)
}

// HandleCheckSchema runs the static referential check and compares the
// declaration with the live database.
func (h *SchemaHandler) HandleCheckSchema(c *fiber.Ctx) error {
	declared := schema.Check(h.declared)
	live, err := schema.Inspect(h.db, h.declared)
	if err != nil {
		log.Printf("Error inspecting database schema: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not inspect database schema",
			"error":   err.Error(),
		})
	}
	if declared == nil {
		declared = []string{}
	}
	if live == nil {
		live = []string{}
	}
	return c.JSON(fiber.Map{
		"declared": declared,
		"database": live,
		"ok":       len(declared) == 0 && len(live) == 0,
	})
}
