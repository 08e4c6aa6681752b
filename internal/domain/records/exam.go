package records

import (
	"strings"
	"time"

	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXAM TYPE
// ══════════════════════════════════════════════════════════════════════════════

// ExamType — вид аттестации: экзамен или зачёт.
type ExamType string

const (
	// ExamTypeExam — экзамен с оценкой.
	ExamTypeExam ExamType = "exam"

	// ExamTypeCredit — зачёт.
	ExamTypeCredit ExamType = "credit"
)

// IsValid проверяет корректность вида аттестации.
func (t ExamType) IsValid() bool {
	return t == ExamTypeExam || t == ExamTypeCredit
}

// String возвращает строковое представление.
func (t ExamType) String() string {
	return string(t)
}

// DisplayRu возвращает название вида аттестации для сообщений бота.
func (t ExamType) DisplayRu() string {
	if t == ExamTypeExam {
		return "Экзамен"
	}
	return "Зачёт"
}

// ParseExamType разбирает вид аттестации из строки.
func ParseExamType(s string) (ExamType, error) {
	t := ExamType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrUnknownExamType
	}
	return t, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EXAM
// ══════════════════════════════════════════════════════════════════════════════

// DateLayout — формат календарной даты проведения ("2006-01-02").
// Дата хранится строкой, как её присылает фронтенд; разбор выполняется
// только там, где нужна арифметика дат (планировщик напоминаний).
const DateLayout = "2006-01-02"

// Exam — экзамен или зачёт, назначенный группе.
type Exam struct {
	ID          int64
	Type        ExamType
	Semester    int16
	Course      int16
	Discipline  string
	HoldingDate string
	Link        *string
	GroupID     int64
	CuratorID   int64
}

// Date разбирает дату проведения. Некорректная дата — ошибка ErrBadDate;
// планировщик такие экзамены логирует и пропускает.
func (e *Exam) Date() (time.Time, error) {
	t, err := time.Parse(DateLayout, e.HoldingDate)
	if err != nil {
		return time.Time{}, shared.WrapError("records", "ParseDate", shared.ErrInvalidFormat, "bad holding date", err)
	}
	return t, nil
}

// ExamDetails — экзамен вместе с именами группы и куратора.
// Используется списками API и шаблонами уведомлений.
type ExamDetails struct {
	Exam
	GroupName   string
	CuratorName FullName
}

// StudentMark — строка ведомости: студент и его оценка (nil — не выставлена).
type StudentMark struct {
	StudentID int64
	Name      FullName
	Value     *int16
}

// ExamMarks — ведомость оценок по экзамену.
type ExamMarks struct {
	ExamID      int64
	Discipline  string
	HoldingDate string
	Students    []StudentMark
}

// Доменные ошибки экзаменов.
var (
	ErrExamNotFound    = shared.NewDomainError("records", "GetExam", shared.ErrNotFound, "exam not found")
	ErrUnknownExamType = shared.NewDomainError("records", "ParseExamType", shared.ErrInvalidInput, "unknown exam type")
	ErrBadDate         = shared.NewDomainError("records", "ParseDate", shared.ErrInvalidFormat, "holding date must be YYYY-MM-DD")
)
