package controllers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"campus-queue-backend/internal/auth/services"
)

type AuthController struct {
	AuthService *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{AuthService: service}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ac *AuthController) LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "Invalid request body",
			"data":    nil,
		})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  http.StatusBadRequest,
			"message": "username and password are required",
			"data":    nil,
		})
	}

	result, err := ac.AuthService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"status":  http.StatusUnauthorized,
				"message": "Invalid username or password",
				"data":    nil,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"status":  http.StatusInternalServerError,
			"message": "Failed to login: " + err.Error(),
			"data":    nil,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Login successful",
		"data":    result,
	})
}
