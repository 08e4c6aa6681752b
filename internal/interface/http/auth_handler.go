package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roy42022p/Backend/internal/application/service"
)

// authHandler обслуживает вход и саморегистрацию администратора.
type authHandler struct {
	auth *service.AuthService
}

func newAuthHandler(auth *service.AuthService) *authHandler {
	return &authHandler{auth: auth}
}

func (h *authHandler) register(g *echo.Group) {
	g.POST("/login", h.login)
	g.POST("/register", h.signup)
}

// login аутентифицирует участника любой роли. Данные принимаются формой
// OAuth2 (username/password/secret_key) либо тем же JSON-объектом.
func (h *authHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректные данные формы")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.Request().Context(), req.Username, req.Password, req.SecretKey)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
		Role:        result.Role.String(),
		Username:    result.Username,
	})
}

// signup регистрирует нового администратора по секретному ключу.
func (h *authHandler) signup(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректные данные формы")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.auth.RegisterAdmin(c.Request().Context(), req.Username, req.Password, req.SecretKey)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, registerResponse{
		Username:    result.Username,
		Role:        result.Role.String(),
		AccessToken: result.AccessToken,
	})
}
