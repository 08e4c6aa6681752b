package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Roy42022p/Backend/internal/domain/notification"
	"github.com/Roy42022p/Backend/internal/domain/records"
)

// ══════════════════════════════════════════════════════════════════════════════
// TASKS
// ══════════════════════════════════════════════════════════════════════════════

// TaskKind discriminates queued notification tasks.
type TaskKind string

const (
	// TaskExamCreated — a new exam was created for a group.
	TaskExamCreated TaskKind = "exam_created"

	// TaskExamLinkUpdated — a ticket link was attached to an exam.
	TaskExamLinkUpdated TaskKind = "exam_link_updated"

	// TaskMarkChanged — a student's mark actually changed value.
	TaskMarkChanged TaskKind = "mark_changed"
)

// Task is one unit of background notification work. Mutation endpoints
// enqueue tasks after commit; the worker loop owns delivery.
type Task struct {
	Kind TaskKind

	// Exam tasks.
	ExamID int64
	Link   string

	// Mark tasks (one task per actually-changed record).
	StudentID  int64
	Discipline string
	Mark       *int16
}

// ══════════════════════════════════════════════════════════════════════════════
// QUEUE
// ══════════════════════════════════════════════════════════════════════════════

// DefaultQueueSize bounds the number of pending notification tasks.
const DefaultQueueSize = 256

// Queue is the background notification pipeline: a buffered task channel
// consumed by a single worker goroutine. The worker's lifetime is bound to
// the process, not to any originating request — cancelling the request that
// enqueued a task does not cancel its delivery.
type Queue struct {
	tasks    chan Task
	resolver *Resolver
	exams    records.ExamRepository
	notifier *Notifier
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewQueue creates a notification queue. size <= 0 uses DefaultQueueSize.
func NewQueue(resolver *Resolver, exams records.ExamRepository, notifier *Notifier, size int, logger *slog.Logger) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		tasks:    make(chan Task, size),
		resolver: resolver,
		exams:    exams,
		notifier: notifier,
		logger:   logger,
	}
}

// Enqueue submits a task without blocking the caller. When the queue is
// full the task is dropped and logged — delivery is best-effort.
func (q *Queue) Enqueue(task Task) {
	select {
	case q.tasks <- task:
	default:
		q.logger.Error("notification queue full, dropping task",
			"kind", task.Kind,
			"exam_id", task.ExamID,
			"student_id", task.StudentID,
		)
	}
}

// Start launches the worker loop. The loop runs until Stop is called or
// the parent context is cancelled.
func (q *Queue) Start(ctx context.Context) {
	ctx, q.cancel = context.WithCancel(ctx)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.logger.Info("notification worker started", "queue_size", cap(q.tasks))
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("notification worker stopped")
				return
			case task := <-q.tasks:
				sent := q.process(ctx, task)
				// Пауза между задачами: пачка изменённых оценок уходит с тем
				// же интервалом, что и сообщения внутри одной рассылки, а не
				// очередью без задержки.
				if sent > 0 {
					select {
					case <-ctx.Done():
						q.logger.Info("notification worker stopped")
						return
					case <-time.After(q.notifier.Delay()):
					}
				}
			}
		}
	}()
}

// Stop cancels the worker loop and waits for the in-flight task to finish.
func (q *Queue) Stop() {
	if q.cancel != nil {
		q.cancel()
	}
	q.wg.Wait()
}

// process executes one task and returns the number of delivered messages.
// Errors are logged only: background delivery failures never surface to the
// mutation that triggered them.
func (q *Queue) process(ctx context.Context, task Task) int {
	switch task.Kind {
	case TaskExamCreated:
		return q.notifyExam(ctx, task.ExamID, func(exam records.ExamDetails) notification.Message {
			return notification.Message{Text: notification.ExamCreatedText(exam)}
		})

	case TaskExamLinkUpdated:
		return q.notifyExam(ctx, task.ExamID, func(exam records.ExamDetails) notification.Message {
			return notification.Message{
				Text:   notification.LinkAttachedText(exam),
				Button: notification.LinkButton(task.Link),
			}
		})

	case TaskMarkChanged:
		return q.notifyMark(ctx, task)

	default:
		q.logger.Error("unknown notification task", "kind", task.Kind)
		return 0
	}
}

// notifyExam resolves the exam's recipients and broadcasts one message per
// recipient, built by the supplied template function.
func (q *Queue) notifyExam(ctx context.Context, examID int64, build func(records.ExamDetails) notification.Message) int {
	exam, err := q.exams.GetDetails(ctx, examID)
	if err != nil {
		q.logger.Warn("exam for notification not found", "exam_id", examID, "error", err)
		return 0
	}

	chatIDs, err := q.resolver.ExamRecipients(ctx, examID)
	if err != nil {
		q.logger.Error("failed to resolve recipients", "exam_id", examID, "error", err)
		return 0
	}
	if len(chatIDs) == 0 {
		return 0
	}

	msgs := make([]notification.Message, 0, len(chatIDs))
	for _, chatID := range chatIDs {
		msg := build(*exam)
		msg.ChatID = chatID
		msgs = append(msgs, msg)
	}

	stats := q.notifier.Broadcast(ctx, msgs)
	q.logger.Info("exam notification broadcast finished",
		"exam_id", examID,
		"sent", stats.Sent,
		"skipped", stats.Skipped,
	)
	return stats.Sent
}

// notifyMark sends a single mark-change notification to one student.
func (q *Queue) notifyMark(ctx context.Context, task Task) int {
	chatID, err := q.resolver.StudentRecipient(ctx, task.StudentID)
	if err != nil {
		if errors.Is(err, records.ErrHandleNotFound) {
			q.logger.Warn("student has no bound chat, skipping mark notification",
				"student_id", task.StudentID,
			)
		} else {
			q.logger.Error("failed to resolve student chat",
				"student_id", task.StudentID,
				"error", err,
			)
		}
		return 0
	}

	stats := q.notifier.Broadcast(ctx, []notification.Message{{
		ChatID: chatID,
		Text:   notification.MarkUpdatedText(task.Discipline, task.Mark),
	}})
	return stats.Sent
}
