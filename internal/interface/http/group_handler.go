package httpapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roy42022p/Backend/internal/application/service"
)

// groupHandler обслуживает CRUD и импорт учебных групп.
type groupHandler struct {
	groups *service.GroupService
}

func newGroupHandler(groups *service.GroupService) *groupHandler {
	return &groupHandler{groups: groups}
}

func (h *groupHandler) register(g *echo.Group) {
	g.GET("", h.list)
	g.POST("/create", h.create)
	g.PATCH("/update/:group_id", h.update)
	g.DELETE("/delete/:group_id", h.delete)
	g.POST("/import", h.importTable)
}

// list возвращает группы в области видимости вызывающего: администратор
// видит все, куратор — только собственные.
func (h *groupHandler) list(c echo.Context) error {
	groups, err := h.groups.List(c.Request().Context(), requestScope(c))
	if err != nil {
		return err
	}

	resp := make([]groupResponse, 0, len(groups))
	for _, gi := range groups {
		resp = append(resp, groupToResponse(&gi.Group, gi.StudentsCount))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *groupHandler) create(c echo.Context) error {
	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	group, err := h.groups.Create(c.Request().Context(), req.Name, req.CuratorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, groupToResponse(group, 0))
}

func (h *groupHandler) update(c echo.Context) error {
	id, err := pathID(c, "group_id")
	if err != nil {
		return err
	}

	var req updateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}

	group, err := h.groups.Update(c.Request().Context(), id, req.Name, req.CuratorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, groupToResponse(group, 0))
}

func (h *groupHandler) delete(c echo.Context) error {
	id, err := pathID(c, "group_id")
	if err != nil {
		return err
	}
	if err := h.groups.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *groupHandler) importTable(c echo.Context) error {
	var rows []groupImportRow
	if err := c.Bind(&rows); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}

	entries := make([]service.GroupImportEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, service.GroupImportEntry{
			Name:            row.Name,
			CuratorFullName: row.CuratorFullName,
		})
	}

	imported, errs := h.groups.Import(c.Request().Context(), entries)
	return c.JSON(http.StatusCreated, newImportResponse(
		fmt.Sprintf("Импортировано групп: %d", imported), errs, len(rows),
	))
}
