// Package httpapi реализует REST-интерфейс навигатора промежуточной
// аттестации поверх echo: аутентификация, кураторы, группы, студенты,
// экзамены и оценки. Слой только разбирает запросы, проверяет роли и
// переводит доменные ошибки в статусы — вся логика живёт в сервисах.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Roy42022p/Backend/internal/application/authz"
	"github.com/Roy42022p/Backend/internal/application/service"
	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/infrastructure/docgen"
)

// Services — прикладные сервисы, которые обслуживает API.
type Services struct {
	Auth     *service.AuthService
	Curators *service.CuratorService
	Groups   *service.GroupService
	Students *service.StudentService
	Exams    *service.ExamService
	Marks    *service.MarkService
}

// Options — настройки HTTP-сервера.
type Options struct {
	Address string
	Tokens  *authz.TokenManager
	Docs    *docgen.Generator
	Logger  *slog.Logger
}

// Server — HTTP-сервер API.
type Server struct {
	app     *echo.Echo
	address string
	logger  *slog.Logger
}

// NewServer собирает сервер: middleware, обработчик ошибок и маршруты.
func NewServer(opts Options, svcs Services) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true

	app.Pre(middleware.RemoveTrailingSlash())
	app.Use(middleware.Recover())
	app.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogMethod: true,
		LogURI:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	app.Validator = newRequestValidator()
	app.HTTPErrorHandler = newErrorHandler(logger)

	s := &Server{app: app, address: opts.Address, logger: logger}
	s.routes(opts, svcs)
	return s
}

func (s *Server) routes(opts Options, svcs Services) {
	api := s.app.Group("/api/v1")

	newAuthHandler(svcs.Auth).register(api.Group("/auth"))

	auth := authMiddleware(opts.Tokens)
	staff := requireRoles(records.RoleAdmin, records.RoleCurator)

	newExamHandler(svcs.Exams, opts.Docs).register(api.Group("/exam", auth, staff))
	newGroupHandler(svcs.Groups).register(api.Group("/group", auth, staff))
	newMarkHandler(svcs.Marks).register(api.Group("/mark", auth, staff))

	// Кураторы и студенты раздают права по-маршрутно.
	newCuratorHandler(svcs.Curators).register(api.Group("/curator", auth))
	newStudentHandler(svcs.Students, svcs.Exams).register(api.Group("/student", auth))
}

// Start запускает сервер и блокируется до остановки.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "address", s.address)
	if err := s.app.Start(s.address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// ServeHTTP implements http.Handler (используется тестами).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}
