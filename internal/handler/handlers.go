package handler

import (
	"net/http"
	"strings"

	"domaincheck/internal/check"
	"domaincheck/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	Runner *check.Runner
}

func NewHandler(r *check.Runner) *Handler {
	return &Handler{Runner: r}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/checks", h.Checks)
	e.POST("/run", h.Run)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(utils.Registry, promhttp.HandlerOpts{})))
}

// === Routes ===

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type checkInfo struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

func (h *Handler) Checks(c echo.Context) error {
	selected := check.Filter(h.Runner.Checks, only(c))
	out := make([]checkInfo, 0, len(selected))
	for _, ch := range selected {
		out = append(out, checkInfo{Name: ch.Name, Target: ch.Target})
	}
	return c.JSON(http.StatusOK, out)
}

// Run executes the suite synchronously. A report with any failure is
// served as 503 so plain HTTP monitors can alert on it.
func (h *Handler) Run(c echo.Context) error {
	selected := check.Filter(h.Runner.Checks, only(c))
	if len(selected) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no checks match")
	}

	report := h.Runner.RunChecks(c.Request().Context(), selected)
	code := http.StatusOK
	if !report.OK() {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, report)
}

// only reads ?only=a,b&only=c into a prefix list.
func only(c echo.Context) []string {
	var prefixes []string
	for _, v := range c.QueryParams()["only"] {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				prefixes = append(prefixes, p)
			}
		}
	}
	return prefixes
}
