package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/erp/uom/internal/application/health"
	"github.com/erp/uom/internal/interfaces/http/dto"
	"github.com/erp/uom/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler serves liveness, readiness and the data health report
type HealthHandler struct {
	BaseHandler
	report    *health.DataHealthService
	db        Pinger
	version   string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. db may be nil when the service
// runs on the in-memory store.
func NewHealthHandler(report *health.DataHealthService, db Pinger, version string) *HealthHandler {
	return &HealthHandler{
		report:    report,
		db:        db,
		version:   version,
		startTime: time.Now(),
	}
}

// Routes returns the data health route, mounted under /uom
func (h *HealthHandler) Routes() *router.DomainGroup {
	g := router.NewDomainGroup("health", "/uom")
	g.GET("/health/data", h.DataHealth)
	return g
}

// InfoResponse describes the running service
type InfoResponse struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database"`
}

// Liveness handles GET /health
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /ready; it fails while the database is unreachable
func (h *HealthHandler) Readiness(c *gin.Context) {
	info := InfoResponse{
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "memory",
	}
	if h.db != nil {
		info.Database = "up"
		if err := h.db.Ping(); err != nil {
			info.Database = "down"
			c.JSON(http.StatusServiceUnavailable, dto.Response{
				Success: false,
				Data:    info,
				Error:   &dto.ErrorInfo{Code: "ERR_UNAVAILABLE", Message: "Database is unreachable", RequestID: getRequestID(c)},
			})
			return
		}
	}
	h.Success(c, info)
}

// DataHealth handles GET /health/data. Failing findings still return 200;
// the report's ok flag carries the verdict.
func (h *HealthHandler) DataHealth(c *gin.Context) {
	report, err := h.report.Run(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"ok":           report.OK(),
		"findings":     report.Findings,
		"ok_count":     report.OKCount,
		"fail_count":   report.FailCount,
		"generated_at": report.GeneratedAt,
	})
}
