package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taqrir/internal/jobs"
)

// Submitter is how the handler hands work to the background runner.
type Submitter interface {
	Submit(id, query string) error
}

type ReportsHandler struct {
	Store  jobs.Store
	Runner Submitter
}

func (h *ReportsHandler) Register(g *echo.Group) {
	g.POST("", h.create)
	g.GET("/:id", h.status)
}

func (h *ReportsHandler) create(c echo.Context) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query required")
	}

	id := uuid.NewString()
	if err := h.Store.Create(c.Request().Context(), id, query); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.Runner.Submit(id, query); err != nil {
		_ = h.Store.Fail(c.Request().Context(), id, err)
		if errors.Is(err, jobs.ErrQueueFull) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "server is busy, try again later")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"success": true,
		"task_id": id,
	})
}

func (h *ReportsHandler) status(c echo.Context) error {
	job, err := h.Store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := map[string]interface{}{"status": string(job.State)}
	switch job.State {
	case jobs.StateSuccess:
		resp["result"] = job.Result
	case jobs.StateFailure:
		resp["error"] = job.Error
	}
	return c.JSON(http.StatusOK, resp)
}
