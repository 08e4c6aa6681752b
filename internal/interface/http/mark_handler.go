package httpapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roy42022p/Backend/internal/application/service"
)

// markHandler обслуживает пакетное обновление и импорт оценок.
type markHandler struct {
	marks *service.MarkService
}

func newMarkHandler(marks *service.MarkService) *markHandler {
	return &markHandler{marks: marks}
}

func (h *markHandler) register(g *echo.Group) {
	g.PATCH("/batch", h.batchUpdate)
	g.POST("/import", h.importTable)
}

// batchUpdate применяет пакет оценок. В ответе — число реально изменённых
// записей: повторная отправка того же пакета даёт ноль.
func (h *markHandler) batchUpdate(c echo.Context) error {
	var req markUpdateBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	items := make([]service.MarkUpdateItem, 0, len(req.Marks))
	for _, row := range req.Marks {
		items = append(items, service.MarkUpdateItem{
			StudentID: row.StudentID,
			ExamID:    row.ExamID,
			RawMark:   row.Mark,
		})
	}

	updated, err := h.marks.BatchUpdate(c.Request().Context(), items)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, markBatchResponse{
		Detail:        "Оценки успешно обновлены",
		UpdatedCount:  updated,
		TotalAttempts: len(req.Marks),
	})
}

func (h *markHandler) importTable(c echo.Context) error {
	var rows []markImportRow
	if err := c.Bind(&rows); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}

	entries := make([]service.MarkImportEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, service.MarkImportEntry{
			ExamID:        row.ExamID,
			LastFirstName: row.LastFirstName,
			RawMark:       row.Mark,
		})
	}

	imported, errs := h.marks.Import(c.Request().Context(), entries)
	return c.JSON(http.StatusCreated, newImportResponse(
		fmt.Sprintf("Импортировано оценок: %d", imported), errs, len(rows),
	))
}
