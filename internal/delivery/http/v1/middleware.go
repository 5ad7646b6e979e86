package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/docker-task-list/api/internal/models"
	"github.com/docker-task-list/api/internal/services"
)

const currentUserCtxKey = "current_user"

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Error().Msg("authorization header required")
		abort(c, newUnauthorizedError("authorization header required"))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Error().Msg("invalid authorization header")
		abort(c, newUnauthorizedError("invalid authorization header"))
		return
	}

	user, err := h.auth.Authenticate(c, parts[1])
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to authenticate")
		switch {
		case errors.Is(err, services.ErrInvalidToken):
			abort(c, newUnauthorizedError(services.ErrInvalidToken.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.Set(currentUserCtxKey, user)
	c.Next()
}

func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserCtxKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// mustCurrentUser aborts with 401 when the auth middleware
// didn't run; handlers behind it can rely on a non-nil user.
func mustCurrentUser(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return nil, false
	}
	return user, true
}
