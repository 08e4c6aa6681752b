package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// CreateStudentInput — данные нового студента. Логин генерируется из ФИО,
// пароль студент задаёт сам при регистрации в боте.
type CreateStudentInput struct {
	Name    records.FullName
	GroupID int64
}

// UpdateStudentInput — частичное обновление студента: nil-поля не трогаются.
type UpdateStudentInput struct {
	FirstName   *string
	LastName    *string
	Patronymic  *string
	GroupID     *int64
	Telephone   *string
	DateOfBirth *string
	Mail        *string
	Snils       *string
}

// StudentImportEntry — строка импорта студентов: ФИО и название группы.
type StudentImportEntry struct {
	FullName  string
	GroupName string
}

// StudentService управляет студентами.
type StudentService struct {
	students records.StudentRepository
	groups   records.GroupRepository
	logger   *slog.Logger
}

// NewStudentService создаёт сервис студентов.
func NewStudentService(students records.StudentRepository, groups records.GroupRepository, logger *slog.Logger) *StudentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &StudentService{students: students, groups: groups, logger: logger}
}

// List возвращает студентов в области видимости вызывающего.
func (s *StudentService) List(ctx context.Context, scope records.Scope) ([]records.StudentInfo, error) {
	return s.students.List(ctx, scope)
}

// ListByGroup возвращает студентов одной группы.
func (s *StudentService) ListByGroup(ctx context.Context, groupID int64) ([]records.StudentInfo, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.students.ListByGroup(ctx, groupID)
}

// GetByLogin возвращает студента по логину вместе с данными группы.
func (s *StudentService) GetByLogin(ctx context.Context, login string) (*records.StudentInfo, error) {
	return s.students.GetByLogin(ctx, login)
}

// Create создаёт студента с логином, сгенерированным из ФИО.
// Регистрацию (пароль и привязку чата) студент завершает в боте.
func (s *StudentService) Create(ctx context.Context, in CreateStudentInput) (*records.Student, error) {
	if _, err := s.groups.GetByID(ctx, in.GroupID); err != nil {
		return nil, err
	}

	login := in.Name.GenerateLogin()
	student := &records.Student{
		Login:   &login,
		Name:    in.Name,
		GroupID: in.GroupID,
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("student created", "student_id", student.ID, "login", login)
	return student, nil
}

// Update применяет частичное обновление и возвращает студента целиком.
func (s *StudentService) Update(ctx context.Context, id int64, in UpdateStudentInput) (*records.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		student.Name.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		student.Name.LastName = *in.LastName
	}
	if in.Patronymic != nil {
		student.Name.Patronymic = *in.Patronymic
	}
	if in.GroupID != nil {
		if _, err := s.groups.GetByID(ctx, *in.GroupID); err != nil {
			return nil, err
		}
		student.GroupID = *in.GroupID
	}
	if in.Telephone != nil {
		student.Telephone = in.Telephone
	}
	if in.DateOfBirth != nil {
		student.DateOfBirth = in.DateOfBirth
	}
	if in.Mail != nil {
		student.Mail = in.Mail
	}
	if in.Snils != nil {
		student.Snils = in.Snils
	}

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("student updated", "student_id", id)
	return student, nil
}

// Delete удаляет студента вместе с его оценками (каскад схемы).
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("student deleted", "student_id", id)
	return nil
}

// Import загружает студентов из таблицы. Дубликаты ФИО внутри группы
// молча пропускаются; неизвестная группа или неверное ФИО — в список ошибок.
func (s *StudentService) Import(ctx context.Context, entries []StudentImportEntry) (int, []string) {
	imported := 0
	var errs []string

	for _, entry := range entries {
		name, err := records.ParseFullName(entry.FullName)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Пропущена запись (неверный формат ФИО): %s", entry.FullName))
			continue
		}

		group, err := s.groups.GetByName(ctx, entry.GroupName)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Пропущена запись (группа не найдена): %s — группа '%s'", entry.FullName, entry.GroupName))
			continue
		}

		exists, err := s.students.ExistsByName(ctx, name, group.ID)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Ошибка в записи %s: %v", entry.FullName, err))
			continue
		}
		if exists {
			continue
		}

		login := name.GenerateLogin()
		student := &records.Student{
			Login:   &login,
			Name:    name,
			GroupID: group.ID,
		}
		if err := s.students.Create(ctx, student); err != nil {
			errs = append(errs, fmt.Sprintf("Ошибка в записи %s: %v", entry.FullName, err))
			continue
		}
		imported++
	}

	s.logger.Info("students imported", "imported", imported, "errors", len(errs))
	return imported, errs
}
