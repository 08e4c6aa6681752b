package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Roy42022p/Backend/internal/application/notify"
	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// MarkUpdateItem — одна оценка в пакетном обновлении. Оценка приходит
// строкой: число 2–5 либо обозначение невыставленной ("н/а", "нет", "").
type MarkUpdateItem struct {
	StudentID int64
	ExamID    int64
	RawMark   string
}

// MarkImportEntry — строка импорта ведомости: экзамен, "Фамилия Имя", оценка.
type MarkImportEntry struct {
	ExamID        int64
	LastFirstName string
	RawMark       *string
}

// MarkService управляет оценками. Изменившаяся оценка ставит задачу на
// персональное уведомление студента; запись без изменения — нет.
type MarkService struct {
	marks    records.MarkRepository
	exams    records.ExamRepository
	students records.StudentRepository
	queue    *notify.Queue
	logger   *slog.Logger
}

// NewMarkService создаёт сервис оценок.
func NewMarkService(
	marks records.MarkRepository,
	exams records.ExamRepository,
	students records.StudentRepository,
	queue *notify.Queue,
	logger *slog.Logger,
) *MarkService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkService{marks: marks, exams: exams, students: students, queue: queue, logger: logger}
}

// BatchUpdate применяет пакет оценок. Учитываются (и уведомляются) только
// реально изменившиеся записи: повторная отправка того же пакета даёт ноль.
// Любая невалидная строка прерывает пакет целиком.
func (s *MarkService) BatchUpdate(ctx context.Context, items []MarkUpdateItem) (int, error) {
	updated := 0

	for _, item := range items {
		if item.StudentID == 0 || item.ExamID == 0 {
			return 0, shared.NewDomainError("mark", "BatchUpdate", shared.ErrValidation, "student_id and exam_id are required")
		}

		value, err := records.ParseMarkValue(item.RawMark)
		if err != nil {
			return 0, err
		}

		exam, err := s.exams.GetDetails(ctx, item.ExamID)
		if err != nil {
			return 0, err
		}

		existing, err := s.marks.Get(ctx, item.StudentID, item.ExamID)
		switch {
		case err == nil:
			if records.MarkValueEqual(existing.Value, value) {
				continue
			}
		case !shared.IsNotFound(err):
			return 0, err
		}

		if err := s.marks.Upsert(ctx, &records.Mark{
			Value:     value,
			ExamID:    item.ExamID,
			StudentID: item.StudentID,
		}); err != nil {
			return 0, err
		}

		updated++
		s.queue.Enqueue(notify.Task{
			Kind:       notify.TaskMarkChanged,
			StudentID:  item.StudentID,
			Discipline: exam.Discipline,
			Mark:       value,
		})
	}

	s.logger.Info("marks batch updated", "updated", updated, "total", len(items))
	return updated, nil
}

// Import загружает ведомость из таблицы. Студент ищется по "Фамилия Имя"
// без учёта регистра. Ошибочные строки собираются в список и не мешают
// остальным; уведомления при импорте не рассылаются.
func (s *MarkService) Import(ctx context.Context, entries []MarkImportEntry) (int, []string) {
	imported := 0
	var errs []string

	for _, entry := range entries {
		parts := strings.Fields(entry.LastFirstName)
		if len(parts) < 2 {
			errs = append(errs, fmt.Sprintf("Некорректный формат имени: %s", entry.LastFirstName))
			continue
		}
		lastName, firstName := parts[0], parts[1]

		student, err := s.students.GetByShortName(ctx, lastName, firstName)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Студент не найден: %s", entry.LastFirstName))
			continue
		}

		raw := ""
		if entry.RawMark != nil {
			raw = *entry.RawMark
		}
		value, err := records.ParseMarkValue(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Оценка должна быть числом 2–5 или 'н/а': %v (%s)", entry.RawMark, entry.LastFirstName))
			continue
		}

		if err := s.marks.Upsert(ctx, &records.Mark{
			Value:     value,
			ExamID:    entry.ExamID,
			StudentID: student.ID,
		}); err != nil {
			errs = append(errs, fmt.Sprintf("Ошибка записи: %s — %v", entry.LastFirstName, err))
			continue
		}
		imported++
	}

	s.logger.Info("marks imported", "imported", imported, "errors", len(errs))
	return imported, errs
}
