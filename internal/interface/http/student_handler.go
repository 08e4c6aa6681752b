package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Roy42022p/Backend/internal/application/service"
	"github.com/Roy42022p/Backend/internal/domain/records"
)

// studentHandler обслуживает CRUD, импорт и справочные выборки студентов.
// Студенту доступны только просмотр по логину и обновление собственной
// анкеты; остальное — администратору и куратору.
type studentHandler struct {
	students *service.StudentService
	exams    *service.ExamService
}

func newStudentHandler(students *service.StudentService, exams *service.ExamService) *studentHandler {
	return &studentHandler{students: students, exams: exams}
}

func (h *studentHandler) register(g *echo.Group) {
	staff := requireRoles(records.RoleAdmin, records.RoleCurator)
	anyRole := requireRoles(records.RoleAdmin, records.RoleCurator, records.RoleStudent)

	g.GET("", h.list, staff)
	g.POST("/create", h.create, staff)
	g.PATCH("/update/:student_id", h.update, anyRole)
	g.GET("/:group_id/students", h.listByGroup, staff)
	g.GET("/by-login/:login", h.getByLogin, anyRole)
	g.DELETE("/delete/:student_id", h.delete, staff)
	g.POST("/import", h.importTable, staff)
}

func (h *studentHandler) list(c echo.Context) error {
	students, err := h.students.List(c.Request().Context(), requestScope(c))
	if err != nil {
		return err
	}

	resp := make([]studentResponse, 0, len(students))
	for _, si := range students {
		resp = append(resp, studentInfoToResponse(si))
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *studentHandler) create(c echo.Context) error {
	var req createStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	student, err := h.students.Create(c.Request().Context(), service.CreateStudentInput{
		Name: records.FullName{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Patronymic: req.Patronymic,
		},
		GroupID: req.GroupID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, studentToResponse(student))
}

func (h *studentHandler) update(c echo.Context) error {
	id, err := pathID(c, "student_id")
	if err != nil {
		return err
	}

	var req updateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}

	student, err := h.students.Update(c.Request().Context(), id, service.UpdateStudentInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Patronymic:  req.Patronymic,
		GroupID:     req.GroupID,
		Telephone:   req.Telephone,
		DateOfBirth: req.DateOfBirth,
		Mail:        req.Mail,
		Snils:       req.Snils,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentToResponse(student))
}

// listByGroup возвращает студентов группы вместе с оценкой за указанный
// экзамен (query-параметр exam_id).
func (h *studentHandler) listByGroup(c echo.Context) error {
	groupID, err := pathID(c, "group_id")
	if err != nil {
		return err
	}
	examID, err := strconv.ParseInt(c.QueryParam("exam_id"), 10, 64)
	if err != nil || examID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректный параметр exam_id")
	}

	students, err := h.students.ListByGroup(c.Request().Context(), groupID)
	if err != nil {
		return err
	}

	marks, err := h.exams.Marks(c.Request().Context(), examID)
	if err != nil {
		return err
	}
	grades := make(map[int64]*int16, len(marks.Students))
	for _, sm := range marks.Students {
		grades[sm.StudentID] = sm.Value
	}

	resp := make([]studentResponse, 0, len(students))
	for _, si := range students {
		id := si.ID
		resp = append(resp, studentResponse{
			FirstName:  si.Name.FirstName,
			LastName:   si.Name.LastName,
			Patronymic: si.Name.Patronymic,
			ID:         &id,
			Grade:      grades[si.ID],
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *studentHandler) getByLogin(c echo.Context) error {
	login := c.Param("login")
	if login == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Логин не указан")
	}

	student, err := h.students.GetByLogin(c.Request().Context(), login)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, studentInfoToResponse(*student))
}

func (h *studentHandler) delete(c echo.Context) error {
	id, err := pathID(c, "student_id")
	if err != nil {
		return err
	}
	if err := h.students.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *studentHandler) importTable(c echo.Context) error {
	var rows []studentImportRow
	if err := c.Bind(&rows); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Некорректное тело запроса")
	}

	entries := make([]service.StudentImportEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, service.StudentImportEntry{
			FullName:  row.FullName,
			GroupName: row.GroupName,
		})
	}

	imported, errs := h.students.Import(c.Request().Context(), entries)
	return c.JSON(http.StatusCreated, newImportResponse(
		fmt.Sprintf("Импортировано студентов: %d", imported), errs, len(rows),
	))
}
