package records

import "github.com/Roy42022p/Backend/internal/domain/shared"

// Group — учебная группа. У каждой группы ровно один куратор-владелец;
// удаление куратора каскадно удаляет его группы (и транзитивно студентов
// и экзамены — каскады объявлены на уровне схемы).
type Group struct {
	ID        int64
	Name      string
	CuratorID int64
}

// Доменные ошибки групп.
var (
	ErrGroupNotFound = shared.NewDomainError("records", "GetGroup", shared.ErrNotFound, "group not found")
	ErrEmptyGroup    = shared.NewDomainError("records", "ValidateGroup", shared.ErrEmptyValue, "group name cannot be empty")
)
