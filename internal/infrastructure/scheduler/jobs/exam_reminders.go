// Package jobs contains scheduled job implementations.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Roy42022p/Backend/internal/application/notify"
	"github.com/Roy42022p/Backend/internal/domain/notification"
	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/pkg/timeutil"
)

// ReminderOffsets — за сколько дней до аттестации рассылаются напоминания.
var ReminderOffsets = []int{1, 3}

// ExamRemindersJob рассылает студентам напоминания о предстоящих экзаменах
// и зачётах. Запускается ежедневно по расписанию и один раз при старте
// процесса; журнал отправок делает повторные запуски в течение дня
// идемпотентными.
type ExamRemindersJob struct {
	exams    records.ExamRepository
	log      records.ReminderLog
	resolver *notify.Resolver
	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewExamRemindersJob создаёт задание рассылки напоминаний.
func NewExamRemindersJob(
	exams records.ExamRepository,
	log records.ReminderLog,
	resolver *notify.Resolver,
	notifier *notify.Notifier,
	logger *slog.Logger,
) *ExamRemindersJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExamRemindersJob{
		exams:    exams,
		log:      log,
		resolver: resolver,
		notifier: notifier,
		logger:   logger,
	}
}

// Name implements scheduler.Job.
func (j *ExamRemindersJob) Name() string {
	return "exam_reminders"
}

// Description implements scheduler.Job.
func (j *ExamRemindersJob) Description() string {
	return "Sends exam reminders to students 1 and 3 days before the holding date"
}

// Run обходит предстоящие экзамены и рассылает напоминания тем, до которых
// осталось ровно 1 или 3 дня. Ошибка по одному экзамену логируется и не
// прерывает обход остальных.
func (j *ExamRemindersJob) Run(ctx context.Context) error {
	now := timeutil.Now()
	today := timeutil.FormatDate(now)

	upcoming, err := j.exams.ListUpcoming(ctx, today)
	if err != nil {
		return fmt.Errorf("list upcoming exams: %w", err)
	}

	j.logger.Info("reminder pass started",
		"date", today,
		"upcoming_exams", len(upcoming),
	)

	for _, exam := range upcoming {
		date, err := exam.Date()
		if err != nil {
			j.logger.Error("skipping exam with bad holding date",
				"exam_id", exam.ID,
				"holding_date", exam.HoldingDate,
				"error", err,
			)
			continue
		}

		daysLeft := timeutil.DaysUntil(date, now)
		if !isReminderOffset(daysLeft) {
			continue
		}

		if err := j.remind(ctx, exam, daysLeft, today); err != nil {
			j.logger.Error("reminder failed",
				"exam_id", exam.ID,
				"days_left", daysLeft,
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return nil
}

// remind отправляет напоминание по одному экзамену. Запись в журнале
// ставится до рассылки: при двух конкурирующих проходах рассылает только
// тот, чья вставка прошла.
func (j *ExamRemindersJob) remind(ctx context.Context, exam records.ExamDetails, daysLeft int, today string) error {
	fresh, err := j.log.MarkSent(ctx, exam.ID, daysLeft, today)
	if err != nil {
		return fmt.Errorf("record reminder: %w", err)
	}
	if !fresh {
		return nil
	}

	chatIDs, err := j.resolver.ExamRecipients(ctx, exam.ID)
	if err != nil {
		return fmt.Errorf("resolve recipients: %w", err)
	}
	if len(chatIDs) == 0 {
		return nil
	}

	text := notification.ReminderText(exam, daysLeft)
	msgs := make([]notification.Message, 0, len(chatIDs))
	for _, chatID := range chatIDs {
		msgs = append(msgs, notification.Message{ChatID: chatID, Text: text})
	}

	stats := j.notifier.Broadcast(ctx, msgs)
	j.logger.Info("reminder sent",
		"exam_id", exam.ID,
		"discipline", exam.Discipline,
		"days_left", daysLeft,
		"delivered", stats.Sent,
		"skipped", stats.Skipped,
	)
	return nil
}

func isReminderOffset(days int) bool {
	for _, offset := range ReminderOffsets {
		if days == offset {
			return true
		}
	}
	return false
}
