package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Roy42022p/Backend/internal/application/authz"
	"github.com/Roy42022p/Backend/internal/domain/records"
)

const claimsContextKey = "authClaims"

// authMiddleware проверяет bearer-токен и кладёт claims в контекст запроса.
func authMiddleware(tokens *authz.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Не авторизован")
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Недействительный токен")
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// requireRoles пропускает запрос только при роли из списка разрешённых.
func requireRoles(allowed ...records.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := contextClaims(c)
			if claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Не авторизован")
			}
			if err := authz.Require(claims, allowed...); err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "Недостаточно прав")
			}
			return next(c)
		}
	}
}

// contextClaims извлекает claims, положенные authMiddleware.
func contextClaims(c echo.Context) *authz.Claims {
	claims, _ := c.Get(claimsContextKey).(*authz.Claims)
	return claims
}

// requestScope возвращает область видимости вызывающего.
func requestScope(c echo.Context) records.Scope {
	claims := contextClaims(c)
	if claims == nil {
		return records.Scope{}
	}
	return claims.Scope()
}
