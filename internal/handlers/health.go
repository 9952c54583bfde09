package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status      string `json:"status"`
	Storage     string `json:"storage"`
	Session     string `json:"session"`
	Backend     string `json:"backend"`
	Environment string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	// Token reads without purging.
	storageStatus := "ok"
	sessionStatus := "present"
	token, err := h.sessions.Token(ctx)
	switch {
	case err != nil:
		storageStatus = "error"
		sessionStatus = "unknown"
		h.log.Error().Err(err).Msg("session storage check failed")
	case token == "":
		sessionStatus = "absent"
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:      "ok",
		Storage:     storageStatus,
		Session:     sessionStatus,
		Backend:     h.cfg.API.BaseURL,
		Environment: h.cfg.Environment,
	})
}
