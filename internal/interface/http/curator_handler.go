package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Roy42022p/Backend/internal/application/service"
	"github.com/Roy42022p/Backend/internal/domain/records"
)

// curatorHandler обслуживает CRUD и импорт кураторов. Просмотр и импорт
// доступны администратору и куратору; создание, изменение и удаление —
// только администратору.
type curatorHandler struct {
	curators *service.CuratorService
}

func newCuratorHandler(curators *service.CuratorService) *curatorHandler {
	return &curatorHandler{curators: curators}
}

func (h *curatorHandler) register(g *echo.Group) {
	staff := requireRoles(records.RoleAdmin, records.RoleCurator)
	adminOnly := requireRoles(records.RoleAdmin)

	g.GET("", h.list, staff)
	g.POST("/create", h.create, adminOnly)
	g.PATCH("/update/:curator_id", h.update, adminOnly)
	g.DELETE("/delete/:curator_id", h.delete, adminOnly)
	g.POST("/import", h.importTable, staff)
}

func (h *curatorHandler) list(c echo.Context) error {
	curators, err := h.curators.List(c.Request().Context())
	if err != nil {
		return err
	}

	resp := make([]curatorResponse, 0, len(curators))
	for _, ci := range curators {
		resp = append(resp, curatorInfoToResponse(ci))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *curatorHandler) create(c echo.Context) error {
	var req createCuratorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	curator, err := h.curators.Create(c.Request().Context(), service.CreateCuratorInput{
		Name: records.FullName{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Patronymic: req.Patronymic,
		},
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, curatorToResponse(curator))
}

func (h *curatorHandler) update(c echo.Context) error {
	id, err := pathID(c, "curator_id")
	if err != nil {
		return err
	}

	var req updateCuratorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}

	curator, err := h.curators.Update(c.Request().Context(), id, service.UpdateCuratorInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Patronymic: req.Patronymic,
		Login:      req.Login,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, curatorToResponse(curator))
}

func (h *curatorHandler) delete(c echo.Context) error {
	id, err := pathID(c, "curator_id")
	if err != nil {
		return err
	}
	if err := h.curators.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *curatorHandler) importTable(c echo.Context) error {
	var rows []curatorImportRow
	if err := c.Bind(&rows); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}

	entries := make([]service.CuratorImportEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, service.CuratorImportEntry{
			FullName: row.FullName,
			Groups:   row.Groups,
			Login:    row.Login,
			Password: row.Password,
		})
	}

	imported, errs := h.curators.Import(c.Request().Context(), entries)
	return c.JSON(http.StatusCreated, newImportResponse(
		fmt.Sprintf("Импортировано кураторов: %d", imported), errs, len(rows),
	))
}

// pathID разбирает числовой параметр пути.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Некорректный параметр %s", name))
	}
	return id, nil
}
