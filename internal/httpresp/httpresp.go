// Package httpresp holds the response helpers shared by every gin handler.
package httpresp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-mrp-service/internal/apperror"
	"github.com/fekuna/omnipos-mrp-service/pkg/logger"
)

// Error writes {"error": message} with the status mapped from err. Internal
// failures are logged with their cause before the generic message goes out.
func Error(c *gin.Context, log logger.ZapLogger, op string, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error(op, zap.Error(err), zap.String("path", c.FullPath()))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperror.PublicMessage(err)})
}

func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// Page reads page/page_size query parameters; zero page size means no limit.
func Page(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "0"))
	if page < 1 {
		page = 1
	}
	if pageSize < 0 {
		pageSize = 0
	}
	return page, pageSize
}
