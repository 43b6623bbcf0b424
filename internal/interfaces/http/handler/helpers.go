package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/teasupply/backend/internal/interfaces/http/dto"
)

// parseIDParam binds and parses the :id path parameter as a UUID
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
