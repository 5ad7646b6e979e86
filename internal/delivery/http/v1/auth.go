package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docker-task-list/api/internal/models"
	"github.com/docker-task-list/api/internal/services"
)

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Email: user.Email,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=255"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Register(c, services.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			abort(c, newBadRequestError(services.ErrUserAlreadyExists.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, authResponse{
		Token: result.Token,
		User:  newUserResponse(result.User),
	})
}

type loginRequest struct {
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,max=255"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			abort(c, newUnauthorizedError(services.ErrInvalidCredentials.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, authResponse{
		Token: result.Token,
		User:  newUserResponse(result.User),
	})
}

func (h *handlerImpl) HandleMe(c *gin.Context) {
	user, ok := mustCurrentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}
