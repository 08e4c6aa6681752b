package records

import (
	"strconv"
	"strings"

	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// Mark — оценка студента за экзамен. Value == nil означает "не выставлена"
// (в ведомости отображается как "н/а"). На пару (студент, экзамен) существует
// не более одной строки — запись идёт через upsert.
type Mark struct {
	ID        int64
	Value     *int16
	ExamID    int64
	StudentID int64
}

// Допустимый диапазон выставленной оценки.
const (
	MarkMin int16 = 2
	MarkMax int16 = 5
)

// Строковые обозначения невыставленной оценки, принимаемые при импорте.
var emptyMarkAliases = map[string]bool{
	"":    true,
	"н/а": true,
	"na":  true,
	"нет": true,
	"-":   true,
}

// ParseMarkValue разбирает оценку из сырого пользовательского ввода.
// Пустые обозначения ("н/а", "na", "нет", "-", "") дают nil. Число вне
// диапазона 2–5 — ошибка ErrMarkOutOfRange.
func ParseMarkValue(raw string) (*int16, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if emptyMarkAliases[s] {
		return nil, nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, shared.WrapError("records", "ParseMark", shared.ErrInvalidFormat, "mark must be a number or 'н/а'", err)
	}

	v := int16(n)
	if err := ValidateMarkValue(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ValidateMarkValue проверяет, что оценка либо не выставлена, либо в 2–5.
func ValidateMarkValue(v *int16) error {
	if v == nil {
		return nil
	}
	if *v < MarkMin || *v > MarkMax {
		return ErrMarkOutOfRange
	}
	return nil
}

// MarkValueEqual сравнивает две опциональные оценки.
func MarkValueEqual(a, b *int16) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// DisplayMarkValue возвращает оценку для ведомостей и уведомлений.
func DisplayMarkValue(v *int16) string {
	if v == nil {
		return "н/а"
	}
	return strconv.Itoa(int(*v))
}

// Доменные ошибки оценок.
var (
	ErrMarkNotFound   = shared.NewDomainError("records", "GetMark", shared.ErrNotFound, "mark not found")
	ErrMarkOutOfRange = shared.NewDomainError("records", "ValidateMark", shared.ErrValueOutOfRange, "mark must be between 2 and 5")
)
