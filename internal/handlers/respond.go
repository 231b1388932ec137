package handlers

import (
	"log"
	"net/http"

	"agency-desk-backend/internal/middleware"
	"agency-desk-backend/internal/models"
	"agency-desk-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondErr writes err as an ErrorResponse. Service errors carry their
// own status; anything else is logged and reported as a 500, with the
// cause attached outside release mode.
func respondErr(c *gin.Context, err error) {
	if svcErr, ok := services.AsError(err); ok {
		c.JSON(svcErr.StatusCode(), models.ErrorResponse{Message: svcErr.Message})
		return
	}

	log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	resp := models.ErrorResponse{Message: "Internal server error"}
	if gin.Mode() != gin.ReleaseMode {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Message: "Invalid request body",
			Error:   err.Error(),
		})
		return false
	}
	return true
}

func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "user id not found"})
	}
	return id, ok
}
