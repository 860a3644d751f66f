package api

import (
	"net/http"
	"sync"

	"coclass/internal/engine"
	"coclass/internal/models"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	mu          sync.RWMutex
	tree        *engine.CodeTree
	ensureASCII bool
}

// NewHandler accepts a nil tree; every route answers 503 until SetTree.
func NewHandler(tree *engine.CodeTree, ensureASCII bool) *Handler {
	return &Handler{tree: tree, ensureASCII: ensureASCII}
}

func (h *Handler) SetTree(tree *engine.CodeTree) {
	h.mu.Lock()
	h.tree = tree
	h.mu.Unlock()
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api", h.requireTree)
	api.GET("/coclass", h.GetTree)
	api.GET("/dimensions", h.GetDimensions)
	api.GET("/dimensions/:dimension/codes/:code", h.GetCode)
	api.GET("/terms/:term", h.FindTerm)
}

func (h *Handler) current() *engine.CodeTree {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tree
}

func (h *Handler) requireTree(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.current() == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "classification is still loading")
		}
		return next(c)
	}
}

// --- HANDLERS ---

func (h *Handler) Health(c echo.Context) error {
	if h.current() == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// same bytes as the generated file
func (h *Handler) GetTree(c echo.Context) error {
	doc, err := engine.Encode(h.current(), h.ensureASCII)
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, doc)
}

func (h *Handler) GetDimensions(c echo.Context) error {
	tree := h.current()
	dims := tree.Dimensions()
	out := make([]models.DimensionSummary, 0, len(dims))
	for _, d := range dims {
		root, _ := tree.Root(d)
		out = append(out, models.DimensionSummary{Name: d, Entries: root.Count()})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCode(c echo.Context) error {
	dimension := c.Param("dimension")
	code := c.Param("code")

	node, ok := h.current().Lookup(dimension, code)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "code not found")
	}
	return c.JSON(http.StatusOK, node.View(dimension, code))
}

func (h *Handler) FindTerm(c echo.Context) error {
	m, ok := h.current().FindTerm(c.Param("term"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "term not found")
	}
	return c.JSON(http.StatusOK, m.View())
}
