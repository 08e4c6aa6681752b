package httpapi

import (
	"github.com/Roy42022p/Backend/internal/domain/records"
)

// Формы запросов и ответов API. Имена JSON-полей повторяют контракт
// фронтенда: camelCase для ФИО, snake_case для остального.

// ══════════════════════════════════════════════════════════════════════════════
// AUTH
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Username  string `json:"username" form:"username" validate:"required"`
	Password  string `json:"password" form:"password" validate:"required"`
	SecretKey string `json:"secret_key" form:"secret_key"`
}

type registerRequest struct {
	Username  string `json:"username" form:"username" validate:"required"`
	Password  string `json:"password" form:"password" validate:"required"`
	SecretKey string `json:"secret_key" form:"secret_key" validate:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
	Username    string `json:"username"`
}

type registerResponse struct {
	Username    string `json:"username"`
	Role        string `json:"role"`
	AccessToken string `json:"access_token"`
}

// ══════════════════════════════════════════════════════════════════════════════
// CURATOR
// ══════════════════════════════════════════════════════════════════════════════

type curatorResponse struct {
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Patronymic string   `json:"patronymic"`
	CuratorID  *int64   `json:"curator_id"`
	Login      *string  `json:"login"`
	Groups     []string `json:"groups"`
}

type createCuratorRequest struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Patronymic string `json:"patronymic" validate:"required"`
	Login      string `json:"login" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type updateCuratorRequest struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Patronymic *string `json:"patronymic"`
	Login      *string `json:"login"`
}

type curatorImportRow struct {
	FullName string   `json:"full_name" validate:"required"`
	Groups   []string `json:"groups"`
	Login    string   `json:"login" validate:"required"`
	Password string   `json:"password" validate:"required"`
}

func curatorToResponse(c *records.Curator) curatorResponse {
	id := c.ID
	login := c.Login
	return curatorResponse{
		FirstName:  c.Name.FirstName,
		LastName:   c.Name.LastName,
		Patronymic: c.Name.Patronymic,
		CuratorID:  &id,
		Login:      &login,
		Groups:     []string{},
	}
}

func curatorInfoToResponse(ci records.CuratorInfo) curatorResponse {
	resp := curatorToResponse(&ci.Curator)
	if ci.Groups != nil {
		resp.Groups = ci.Groups
	}
	return resp
}

// ══════════════════════════════════════════════════════════════════════════════
// GROUP
// ══════════════════════════════════════════════════════════════════════════════

type groupResponse struct {
	GroupID       int64  `json:"group_id"`
	Name          string `json:"name"`
	CuratorID     int64  `json:"curator_id"`
	StudentsCount int    `json:"students_count"`
}

type createGroupRequest struct {
	Name      string `json:"name" validate:"required"`
	CuratorID int64  `json:"curator_id" validate:"required"`
}

type updateGroupRequest struct {
	Name      *string `json:"name"`
	CuratorID *int64  `json:"curator_id"`
}

type groupImportRow struct {
	Name            string `json:"name" validate:"required"`
	CuratorFullName string `json:"curator_full_name" validate:"required"`
}

func groupToResponse(g *records.Group, studentsCount int) groupResponse {
	return groupResponse{
		GroupID:       g.ID,
		Name:          g.Name,
		CuratorID:     g.CuratorID,
		StudentsCount: studentsCount,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT
// ══════════════════════════════════════════════════════════════════════════════

type studentResponse struct {
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Patronymic      string  `json:"patronymic"`
	GroupID         *int64  `json:"group_id"`
	Verified        *bool   `json:"verif"`
	Telephone       *string `json:"telephone"`
	DateOfBirth     *string `json:"dateOfBirth"`
	Mail            *string `json:"mail"`
	Snils           *string `json:"snils"`
	ID              *int64  `json:"id"`
	Grade           *int16  `json:"grade"`
	CuratorFullName *string `json:"curator_fullname"`
	GroupName       *string `json:"group_name"`
	ChatID          *int64  `json:"tg_id"`
}

type createStudentRequest struct {
	// Логин генерируется сервером из ФИО; присланное значение игнорируется.
	Login      string `json:"login"`
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Patronymic string `json:"patronymic" validate:"required"`
	GroupID    int64  `json:"group_id" validate:"required"`
}

type updateStudentRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Patronymic  *string `json:"patronymic"`
	GroupID     *int64  `json:"group_id"`
	Telephone   *string `json:"telephone"`
	DateOfBirth *string `json:"dateOfBirth"`
	Mail        *string `json:"mail"`
	Snils       *string `json:"snils"`
}

type studentImportRow struct {
	FullName  string `json:"full_name" validate:"required"`
	GroupName string `json:"group_name" validate:"required"`
}

func studentToResponse(s *records.Student) studentResponse {
	id := s.ID
	groupID := s.GroupID
	verified := s.Verified
	return studentResponse{
		FirstName:   s.Name.FirstName,
		LastName:    s.Name.LastName,
		Patronymic:  s.Name.Patronymic,
		GroupID:     &groupID,
		Verified:    &verified,
		Telephone:   s.Telephone,
		DateOfBirth: s.DateOfBirth,
		Mail:        s.Mail,
		Snils:       s.Snils,
		ID:          &id,
	}
}

func studentInfoToResponse(si records.StudentInfo) studentResponse {
	resp := studentToResponse(&si.Student)
	if si.GroupName != "" {
		groupName := si.GroupName
		resp.GroupName = &groupName
	}
	if !si.CuratorName.IsZero() {
		curatorName := si.CuratorName.Display()
		resp.CuratorFullName = &curatorName
	}
	resp.ChatID = si.ChatID
	return resp
}

// ══════════════════════════════════════════════════════════════════════════════
// EXAM
// ══════════════════════════════════════════════════════════════════════════════

type examResponse struct {
	ID              int64   `json:"id"`
	Type            string  `json:"type"`
	Semester        int16   `json:"semester"`
	Course          int16   `json:"course"`
	Discipline      string  `json:"discipline"`
	HoldingDate     string  `json:"holding_date"`
	Link            *string `json:"link"`
	GroupName       *string `json:"group_name"`
	CuratorFullName *string `json:"curator_full_name"`
	GroupID         *int64  `json:"group_id"`
}

type createExamRequest struct {
	Type        string  `json:"type" validate:"required"`
	Semester    int16   `json:"semester" validate:"required"`
	Course      int16   `json:"course" validate:"required"`
	Discipline  string  `json:"discipline" validate:"required"`
	HoldingDate string  `json:"holding_date" validate:"required"`
	Link        *string `json:"link"`
	GroupID     int64   `json:"group_id" validate:"required"`
	CuratorID   int64   `json:"curator_id" validate:"required"`
}

type updateExamLinkRequest struct {
	Link *string `json:"link"`
}

type studentMarkRow struct {
	StudentID       int64  `json:"student_id"`
	StudentFullName string `json:"student_full_name"`
	Mark            *int16 `json:"mark"`
}

type examMarksResponse struct {
	ExamID      int64            `json:"exam_id"`
	Discipline  string           `json:"discipline"`
	HoldingDate string           `json:"holding_date"`
	Students    []studentMarkRow `json:"students"`
}

func examDetailsToResponse(e *records.ExamDetails) examResponse {
	groupID := e.GroupID
	resp := examResponse{
		ID:          e.ID,
		Type:        e.Type.String(),
		Semester:    e.Semester,
		Course:      e.Course,
		Discipline:  e.Discipline,
		HoldingDate: e.HoldingDate,
		Link:        e.Link,
		GroupID:     &groupID,
	}
	if e.GroupName != "" {
		groupName := e.GroupName
		resp.GroupName = &groupName
	}
	if !e.CuratorName.IsZero() {
		curatorName := e.CuratorName.Display()
		resp.CuratorFullName = &curatorName
	}
	return resp
}

func examMarksToResponse(m *records.ExamMarks) examMarksResponse {
	rows := make([]studentMarkRow, 0, len(m.Students))
	for _, sm := range m.Students {
		rows = append(rows, studentMarkRow{
			StudentID:       sm.StudentID,
			StudentFullName: sm.Name.Display(),
			Mark:            sm.Value,
		})
	}
	return examMarksResponse{
		ExamID:      m.ExamID,
		Discipline:  m.Discipline,
		HoldingDate: m.HoldingDate,
		Students:    rows,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MARK
// ══════════════════════════════════════════════════════════════════════════════

type markUpdateRow struct {
	StudentID int64  `json:"student_id" validate:"required"`
	ExamID    int64  `json:"exam_id" validate:"required"`
	Mark      string `json:"mark" validate:"max=5"`
}

type markUpdateBatchRequest struct {
	Marks []markUpdateRow `json:"marks" validate:"required,dive"`
}

type markBatchResponse struct {
	Detail        string `json:"detail"`
	UpdatedCount  int    `json:"updated_count"`
	TotalAttempts int    `json:"total_attempts"`
}

type markImportRow struct {
	ExamID        int64   `json:"id" validate:"required"`
	LastFirstName string  `json:"last_fist_name" validate:"required"`
	Mark          *string `json:"mark"`
}

// ══════════════════════════════════════════════════════════════════════════════
// IMPORT RESULT
// ══════════════════════════════════════════════════════════════════════════════

type importResponse struct {
	Message       string   `json:"message"`
	Errors        []string `json:"errors"`
	TotalAttempts int      `json:"total_attempts"`
}

func newImportResponse(message string, errs []string, total int) importResponse {
	if errs == nil {
		errs = []string{}
	}
	return importResponse{
		Message:       message,
		Errors:        errs,
		TotalAttempts: total,
	}
}
