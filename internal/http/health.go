package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookdeck/bookdeck/internal/database"
)

type HealthResponse struct {
	Status string            `json:"status"`
	Time   string            `json:"time"`
	Checks map[string]string `json:"checks"`
}

type HealthController struct {
	db *database.Database
}

func NewHealthController(db *database.Database) *HealthController {
	return &HealthController{db: db}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.SQLDB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status: status,
		Time:   time.Now().UTC().Format(time.RFC3339),
		Checks: checks,
	})
}
