package service

import (
	"context"
	"log/slog"

	"github.com/Roy42022p/Backend/internal/application/notify"
	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXAM SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// CreateExamInput — данные нового экзамена или зачёта.
type CreateExamInput struct {
	Type        records.ExamType
	Semester    int16
	Course      int16
	Discipline  string
	HoldingDate string
	Link        *string
	GroupID     int64
	CuratorID   int64
}

// ExamService управляет экзаменами и ставит задачи на уведомления.
// Уведомления уходят в фоновую очередь после успешной записи: сбой доставки
// никогда не откатывает и не задерживает саму мутацию.
type ExamService struct {
	exams  records.ExamRepository
	groups records.GroupRepository
	queue  *notify.Queue
	logger *slog.Logger
}

// NewExamService создаёт сервис экзаменов.
func NewExamService(exams records.ExamRepository, groups records.GroupRepository, queue *notify.Queue, logger *slog.Logger) *ExamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExamService{exams: exams, groups: groups, queue: queue, logger: logger}
}

// List возвращает экзамены заданного вида в области видимости вызывающего.
func (s *ExamService) List(ctx context.Context, examType records.ExamType, scope records.Scope) ([]records.ExamDetails, error) {
	if !examType.IsValid() {
		return nil, records.ErrUnknownExamType
	}
	return s.exams.List(ctx, examType, scope)
}

// Create создаёт экзамен и ставит задачу на уведомление группы.
func (s *ExamService) Create(ctx context.Context, in CreateExamInput) (*records.ExamDetails, error) {
	if !in.Type.IsValid() {
		return nil, records.ErrUnknownExamType
	}
	if _, err := s.groups.GetByID(ctx, in.GroupID); err != nil {
		return nil, err
	}

	exam := &records.Exam{
		Type:        in.Type,
		Semester:    in.Semester,
		Course:      in.Course,
		Discipline:  in.Discipline,
		HoldingDate: in.HoldingDate,
		Link:        in.Link,
		GroupID:     in.GroupID,
		CuratorID:   in.CuratorID,
	}
	if _, err := exam.Date(); err != nil {
		return nil, err
	}

	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, err
	}

	s.queue.Enqueue(notify.Task{Kind: notify.TaskExamCreated, ExamID: exam.ID})
	s.logger.Info("exam created", "exam_id", exam.ID, "discipline", exam.Discipline)

	return s.exams.GetDetails(ctx, exam.ID)
}

// UpdateLink меняет ссылку на билет. Непустая ссылка запускает рассылку
// с кнопкой "Открыть билет"; сброс ссылки (nil) рассылку не запускает.
func (s *ExamService) UpdateLink(ctx context.Context, examID int64, link *string) (*records.ExamDetails, error) {
	exam, err := s.exams.UpdateLink(ctx, examID, link)
	if err != nil {
		return nil, err
	}

	if link != nil && *link != "" {
		s.queue.Enqueue(notify.Task{
			Kind:   notify.TaskExamLinkUpdated,
			ExamID: examID,
			Link:   *link,
		})
	}

	s.logger.Info("exam link updated", "exam_id", examID)
	return exam, nil
}

// Marks возвращает ведомость оценок по экзамену.
func (s *ExamService) Marks(ctx context.Context, examID int64) (*records.ExamMarks, error) {
	return s.exams.Marks(ctx, examID)
}

// FullRecord возвращает плоскую запись экзамена для генератора документов.
func (s *ExamService) FullRecord(ctx context.Context, examID int64) (*records.ExamRecord, error) {
	return s.exams.FullRecord(ctx, examID)
}

// Delete удаляет экзамен вместе с оценками (каскад схемы).
func (s *ExamService) Delete(ctx context.Context, id int64) error {
	if err := s.exams.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("exam deleted", "exam_id", id)
	return nil
}
