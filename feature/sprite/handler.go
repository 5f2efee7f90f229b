package sprite

import (
	"errors"

	"sprite-index/core/logger"
	"sprite-index/feature/sprite/convert"
	"sprite-index/feature/sprite/matcher"
	"sprite-index/feature/sprite/models"
	"sprite-index/feature/sprite/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TableResponse lists the current table entries.
type TableResponse struct {
	Count   int            `json:"count"`
	Entries []models.Entry `json:"entries"`
}

// IndexResponse is the latest stored index, or the output listing when no
// database is configured.
type IndexResponse struct {
	RunID        string               `json:"run_id,omitempty"`
	Instructions []models.Instruction `json:"instructions,omitempty"`
	Outputs      []string             `json:"outputs"`
}

// Handler handles HTTP requests for sprites.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sprite routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sprites")
	group.Get("/resolve/:filename", h.HandleResolve)
	group.Get("/table", h.HandleGetTable)
	group.Get("/table/:key", h.HandleGetEntry)
	group.Get("/index", h.HandleGetIndex)
}

// HandleResolve resolves an asset filename to its canonical outputs.
// @Summary Resolve Asset
// @Description Match an asset filename against the sprite table and render its canonical names.
// @Tags sprites
// @Produce json
// @Param filename path string true "Asset filename (e.g. 'pokemon_icon_019_61_shiny.png')"
// @Success 200 {object} sprite.Resolution "Resolution"
// @Failure 404 {object} map[string]string "Unrecognized asset"
// @Failure 410 {object} map[string]string "Dropped asset"
// @Failure 503 {object} map[string]string "Table not loaded"
// @Router /sprites/resolve/{filename} [get]
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	filename := c.Params("filename")
	l := logger.WithRayID(h.service.logger, c)

	res, err := h.service.Resolve(filename)
	switch {
	case errors.Is(err, ErrNoTable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, matcher.ErrDroppedAsset):
		return c.Status(fiber.StatusGone).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, matcher.ErrUnrecognized):
		l.Debug("Unrecognized asset", zap.String("filename", filename))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		l.Error("Resolve failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandleGetTable returns the full suffix table in precedence order.
// @Summary Get Sprite Table
// @Tags sprites
// @Produce json
// @Success 200 {object} sprite.TableResponse "Table"
// @Failure 503 {object} map[string]string "Table not loaded"
// @Router /sprites/table [get]
func (h *Handler) HandleGetTable(c *fiber.Ctx) error {
	t, err := h.service.Table()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	entries := t.Entries()
	return c.JSON(TableResponse{Count: len(entries), Entries: entries})
}

// HandleGetEntry returns one table entry.
// @Summary Get Sprite Table Entry
// @Tags sprites
// @Produce json
// @Param key path string true "Entry key (e.g. '019_61')"
// @Success 200 {object} models.Entry "Entry"
// @Failure 404 {object} map[string]string "Unknown key"
// @Router /sprites/table/{key} [get]
func (h *Handler) HandleGetEntry(c *fiber.Ctx) error {
	t, err := h.service.Table()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	key := c.Params("key")
	e, ok := t.Entry(key)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "unknown key " + key})
	}
	return c.JSON(e)
}

// HandleGetIndex returns the latest index run.
// @Summary Get Latest Index
// @Tags sprites
// @Produce json
// @Param run query string false "Run id, defaults to the latest run"
// @Success 200 {object} sprite.IndexResponse "Index"
// @Failure 404 {object} map[string]string "No index"
// @Router /sprites/index [get]
func (h *Handler) HandleGetIndex(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if st := h.service.Store(); st != nil {
		runID := c.Query("run")
		idx, err := st.LoadIndex(c.Context(), runID)
		switch {
		case errors.Is(err, store.ErrNoRun):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		case err != nil:
			l.Error("Failed to load index", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(IndexResponse{RunID: runID, Instructions: idx.Instructions, Outputs: idx.Names()})
	}

	names, err := convert.ReadIndex(h.service.cfg.OutputDir)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(IndexResponse{Outputs: names})
}
