package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Roy42022p/Backend/internal/application/service"
	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/infrastructure/docgen"
)

// examHandler обслуживает экзамены: CRUD, ведомость оценок и генерацию
// документа Word.
type examHandler struct {
	exams *service.ExamService
	docs  *docgen.Generator
}

func newExamHandler(exams *service.ExamService, docs *docgen.Generator) *examHandler {
	return &examHandler{exams: exams, docs: docs}
}

func (h *examHandler) register(g *echo.Group) {
	g.GET("", h.list)
	g.POST("/create", h.create)
	g.PATCH("/:exam_id/link", h.updateLink)
	g.GET("/:exam_id/marks", h.marks)
	g.GET("/:exam_id/document", h.document)
	g.DELETE("/delete/:exam_id", h.delete)
}

// list возвращает экзамены заданного вида (query-параметр exam_type).
func (h *examHandler) list(c echo.Context) error {
	examType, err := records.ParseExamType(c.QueryParam("exam_type"))
	if err != nil {
		return err
	}

	exams, err := h.exams.List(c.Request().Context(), examType, requestScope(c))
	if err != nil {
		return err
	}

	resp := make([]examResponse, 0, len(exams))
	for i := range exams {
		resp = append(resp, examDetailsToResponse(&exams[i]))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *examHandler) create(c echo.Context) error {
	var req createExamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	examType, err := records.ParseExamType(req.Type)
	if err != nil {
		return err
	}

	exam, err := h.exams.Create(c.Request().Context(), service.CreateExamInput{
		Type:        examType,
		Semester:    req.Semester,
		Course:      req.Course,
		Discipline:  req.Discipline,
		HoldingDate: req.HoldingDate,
		Link:        req.Link,
		GroupID:     req.GroupID,
		CuratorID:   req.CuratorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, examDetailsToResponse(exam))
}

func (h *examHandler) updateLink(c echo.Context) error {
	id, err := pathID(c, "exam_id")
	if err != nil {
		return err
	}

	var req updateExamLinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}

	exam, err := h.exams.UpdateLink(c.Request().Context(), id, req.Link)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, examDetailsToResponse(exam))
}

func (h *examHandler) marks(c echo.Context) error {
	id, err := pathID(c, "exam_id")
	if err != nil {
		return err
	}

	marks, err := h.exams.Marks(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, examMarksToResponse(marks))
}

// document генерирует ведомость Word и отдаёт её файлом. Временный файл
// удаляется после отправки ответа.
func (h *examHandler) document(c echo.Context) error {
	id, err := pathID(c, "exam_id")
	if err != nil {
		return err
	}

	record, err := h.exams.FullRecord(c.Request().Context(), id)
	if err != nil {
		return err
	}

	doc, err := h.docs.Generate(c.Request().Context(), record)
	if err != nil {
		return err
	}
	defer h.docs.Cleanup(doc)

	c.Response().Header().Set(echo.HeaderContentType, doc.ContentType)
	return c.Attachment(doc.Path, doc.Filename)
}

func (h *examHandler) delete(c echo.Context) error {
	id, err := pathID(c, "exam_id")
	if err != nil {
		return err
	}
	if err := h.exams.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
