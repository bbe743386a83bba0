package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/s20467/Forum-Backend/internal/middleware"
	"github.com/s20467/Forum-Backend/internal/models"
	"github.com/s20467/Forum-Backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// JSONError maps a domain error to its HTTP status and writes the body.
func JSONError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrAlreadyClosed),
		errors.Is(err, models.ErrNotClosed),
		errors.Is(err, models.ErrAlreadyVoted),
		errors.Is(err, models.ErrNotVoted),
		errors.Is(err, models.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidPagination),
		errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrBadCredentials),
		errors.Is(err, models.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrNotAccessToken):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// idParam parses a numeric path parameter, writing a 400 on garbage.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// pageParams reports whether the request asks for a paginated result and
// extracts page/limit/sort when it does.
func pageParams(c *gin.Context) (page, limit int, sortBy string, paginated bool) {
	pageStr, limitStr, sortBy := c.Query("page"), c.Query("limit"), c.Query("sort")
	if pageStr == "" && limitStr == "" && sortBy == "" {
		return 0, 0, "", false
	}
	if sortBy == "" {
		sortBy = "id"
	}
	limit = utils.StringToInt(limitStr)
	if limit == 0 {
		limit = 10
	}
	return utils.StringToInt(pageStr), limit, sortBy, true
}

// requireCurrentUser fetches the bound identity, writing a 401 when the
// request is anonymous.
func requireCurrentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error_message": "authentication required"})
		return nil, false
	}
	return user, true
}

func forbid(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error_message": "access denied"})
}
