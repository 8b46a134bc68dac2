// internal/api/v1/history.go
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tphakala/dasdcalc/internal/history"
)

// HistoryResponse lists recorded calculations, newest first
type HistoryResponse struct {
	Entries []history.Entry `json:"entries"`
	Count   int             `json:"count"`
}

func (c *Controller) initHistoryRoutes() {
	historyGroup := c.Group.Group("/history")
	historyGroup.GET("", c.GetHistory)
	historyGroup.GET("/:id", c.GetHistoryEntry)
	historyGroup.DELETE("", c.ClearHistory)
}

// historyDisabled writes the response for requests made with history off
func (c *Controller) historyDisabled(ctx echo.Context) error {
	return c.HandleError(ctx, nil, "Calculation history is disabled", http.StatusNotFound)
}

// GetHistory handles GET /api/v1/history?limit=&kind=
func (c *Controller) GetHistory(ctx echo.Context) error {
	if c.history == nil {
		return c.historyDisabled(ctx)
	}

	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.HandleError(ctx, err, "limit must be a non-negative integer", http.StatusBadRequest)
		}
		limit = n
	}

	kind := history.Kind(ctx.QueryParam("kind"))
	switch kind {
	case "", history.KindConversion, history.KindUsage, history.KindSimulation:
	default:
		return c.HandleError(ctx, nil, "kind must be conversion, usage or simulation", http.StatusBadRequest)
	}

	entries := c.history.List(limit, kind)
	return ctx.JSON(http.StatusOK, HistoryResponse{Entries: entries, Count: len(entries)})
}

// GetHistoryEntry handles GET /api/v1/history/:id
func (c *Controller) GetHistoryEntry(ctx echo.Context) error {
	if c.history == nil {
		return c.historyDisabled(ctx)
	}

	entry, err := c.history.Get(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "History entry not found", statusForError(err))
	}
	return ctx.JSON(http.StatusOK, entry)
}

// ClearHistory handles DELETE /api/v1/history
func (c *Controller) ClearHistory(ctx echo.Context) error {
	if c.history == nil {
		return c.historyDisabled(ctx)
	}

	c.history.Clear()
	return ctx.NoContent(http.StatusNoContent)
}
