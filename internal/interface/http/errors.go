package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// newErrorHandler переводит доменные ошибки в HTTP-статусы. Тело ответа
// всегда имеет вид {"detail": ...} — формат, на который рассчитан фронтенд.
func newErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		detail := interface{}("Внутренняя ошибка сервера")

		var httpErr *echo.HTTPError
		var vErrs validator.ValidationErrors
		var dErr *shared.DomainError

		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			detail = httpErr.Message
		case errors.As(err, &vErrs):
			code = http.StatusBadRequest
			fields := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				fields[fe.Field()] = fe.Tag()
			}
			detail = fields
		case shared.IsUnauthorized(err):
			code = http.StatusUnauthorized
			detail = domainMessage(err, dErr)
		case shared.IsForbidden(err):
			code = http.StatusForbidden
			detail = domainMessage(err, dErr)
		case shared.IsNotFound(err):
			code = http.StatusNotFound
			detail = domainMessage(err, dErr)
		case shared.IsValidation(err), shared.IsAlreadyExists(err):
			code = http.StatusBadRequest
			detail = domainMessage(err, dErr)
		default:
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, echo.Map{"detail": detail})
		}
		if writeErr != nil {
			logger.Error("failed to write error response", "error", writeErr)
		}
	}
}

// domainMessage отдаёт клиенту только Message доменной ошибки, без цепочки
// обёрток с внутренними подробностями.
func domainMessage(err error, dErr *shared.DomainError) string {
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return err.Error()
}
