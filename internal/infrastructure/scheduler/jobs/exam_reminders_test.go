package jobs

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roy42022p/Backend/internal/application/notify"
	"github.com/Roy42022p/Backend/internal/domain/notification"
	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type fakeExamRepo struct {
	records.ExamRepository

	upcoming   []records.ExamDetails
	recipients map[int64][]int64
}

func (r *fakeExamRepo) ListUpcoming(_ context.Context, _ string) ([]records.ExamDetails, error) {
	return r.upcoming, nil
}

func (r *fakeExamRepo) RecipientChatIDs(_ context.Context, examID int64) ([]int64, error) {
	chatIDs, ok := r.recipients[examID]
	if !ok {
		return nil, records.ErrExamNotFound
	}
	return chatIDs, nil
}

type fakeReminderLog struct {
	sent map[string]bool
}

func newFakeReminderLog() *fakeReminderLog {
	return &fakeReminderLog{sent: make(map[string]bool)}
}

func (l *fakeReminderLog) MarkSent(_ context.Context, examID int64, dayOffset int, day string) (bool, error) {
	key := fmt.Sprintf("%d/%d/%s", examID, dayOffset, day)
	if l.sent[key] {
		return false, nil
	}
	l.sent[key] = true
	return true, nil
}

type recordingChannel struct {
	messages []notification.Message
}

func (c *recordingChannel) Send(_ context.Context, msg notification.Message) notification.DeliveryResult {
	c.messages = append(c.messages, msg)
	return notification.NewSuccessResult("1")
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func examIn(id int64, days int) records.ExamDetails {
	return records.ExamDetails{
		Exam: records.Exam{
			ID:          id,
			Type:        records.ExamTypeExam,
			Discipline:  "Математика",
			HoldingDate: timeutil.FormatDate(timeutil.Now().AddDate(0, 0, days)),
		},
		GroupName:   "ИС-21",
		CuratorName: records.FullName{LastName: "Кузнецова", FirstName: "Анна", Patronymic: "Павловна"},
	}
}

func newTestJob(exams *fakeExamRepo, log records.ReminderLog) (*ExamRemindersJob, *recordingChannel) {
	channel := &recordingChannel{}
	notifier := notify.NewNotifier(channel, time.Millisecond, nil)
	resolver := notify.NewResolver(exams, nil)
	return NewExamRemindersJob(exams, log, resolver, notifier, nil), channel
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestExamRemindersJob_SendsAtOffsets(t *testing.T) {
	exams := &fakeExamRepo{
		upcoming: []records.ExamDetails{
			examIn(1, 1), // завтра — напоминание
			examIn(2, 2), // послезавтра — тишина
			examIn(3, 3), // через 3 дня — напоминание
			examIn(4, 7), // далеко — тишина
		},
		recipients: map[int64][]int64{
			1: {100, 101},
			2: {200},
			3: {300},
			4: {400},
		},
	}
	job, channel := newTestJob(exams, newFakeReminderLog())

	require.NoError(t, job.Run(context.Background()))

	chatIDs := make([]int64, 0, len(channel.messages))
	for _, msg := range channel.messages {
		chatIDs = append(chatIDs, msg.ChatID)
	}
	assert.ElementsMatch(t, []int64{100, 101, 300}, chatIDs)
}

func TestExamRemindersJob_SecondPassIsIdempotent(t *testing.T) {
	exams := &fakeExamRepo{
		upcoming:   []records.ExamDetails{examIn(1, 1)},
		recipients: map[int64][]int64{1: {100}},
	}
	log := newFakeReminderLog()
	job, channel := newTestJob(exams, log)

	require.NoError(t, job.Run(context.Background()))
	require.NoError(t, job.Run(context.Background()))

	assert.Len(t, channel.messages, 1)
}

func TestExamRemindersJob_SkipsBadDate(t *testing.T) {
	broken := examIn(1, 1)
	broken.HoldingDate = "15.01.2026"

	exams := &fakeExamRepo{
		upcoming:   []records.ExamDetails{broken, examIn(2, 1)},
		recipients: map[int64][]int64{2: {200}},
	}
	job, channel := newTestJob(exams, newFakeReminderLog())

	// Экзамен с кривой датой пропускается, остальные обрабатываются.
	require.NoError(t, job.Run(context.Background()))
	require.Len(t, channel.messages, 1)
	assert.Equal(t, int64(200), channel.messages[0].ChatID)
}

func TestExamRemindersJob_NoRecipients(t *testing.T) {
	exams := &fakeExamRepo{
		upcoming:   []records.ExamDetails{examIn(1, 1)},
		recipients: map[int64][]int64{1: {}},
	}
	job, channel := newTestJob(exams, newFakeReminderLog())

	require.NoError(t, job.Run(context.Background()))
	assert.Empty(t, channel.messages)
}

func TestExamRemindersJob_ReminderTextMentionsTomorrow(t *testing.T) {
	exams := &fakeExamRepo{
		upcoming:   []records.ExamDetails{examIn(1, 1)},
		recipients: map[int64][]int64{1: {100}},
	}
	job, channel := newTestJob(exams, newFakeReminderLog())

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, channel.messages, 1)
	assert.Contains(t, channel.messages[0].Text, "завтра")
	assert.Contains(t, channel.messages[0].Text, "Математика")
}
