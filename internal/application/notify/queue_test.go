package notify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roy42022p/Backend/internal/domain/notification"
	"github.com/Roy42022p/Backend/internal/domain/records"
)

// stampChannel фиксирует момент каждой отправки.
type stampChannel struct {
	mu     sync.Mutex
	chats  []int64
	stamps []time.Time
}

func (c *stampChannel) Send(_ context.Context, msg notification.Message) notification.DeliveryResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chats = append(c.chats, msg.ChatID)
	c.stamps = append(c.stamps, time.Now())
	return notification.NewSuccessResult("1")
}

func (c *stampChannel) snapshot() ([]int64, []time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	chats := append([]int64(nil), c.chats...)
	stamps := append([]time.Time(nil), c.stamps...)
	return chats, stamps
}

type fakeStudentChats struct {
	records.StudentRepository

	chats map[int64]int64
}

func (r *fakeStudentChats) ChatID(_ context.Context, studentID int64) (int64, error) {
	chat, ok := r.chats[studentID]
	if !ok {
		return 0, records.ErrHandleNotFound
	}
	return chat, nil
}

func TestQueue_MarkTasksThrottled(t *testing.T) {
	channel := &stampChannel{}
	delay := 60 * time.Millisecond
	notifier := NewNotifier(channel, delay, nil)
	resolver := NewResolver(nil, &fakeStudentChats{chats: map[int64]int64{1: 100, 2: 200, 3: 300}})

	q := NewQueue(resolver, nil, notifier, 0, nil)
	mark := int16(5)
	for _, id := range []int64{1, 2, 3} {
		q.Enqueue(Task{Kind: TaskMarkChanged, StudentID: id, Discipline: "Математика", Mark: &mark})
	}

	q.Start(context.Background())
	defer q.Stop()

	require.Eventually(t, func() bool {
		chats, _ := channel.snapshot()
		return len(chats) == 3
	}, 2*time.Second, 5*time.Millisecond)

	chats, stamps := channel.snapshot()
	assert.Equal(t, []int64{100, 200, 300}, chats)

	// Пачка изменённых оценок не уходит очередью без пауз: между соседними
	// отправками выдерживается настроенная задержка.
	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		assert.GreaterOrEqual(t, gap, delay, "пауза между отправками %d и %d", i-1, i)
	}
}

func TestQueue_MarkTaskWithoutHandleSkipped(t *testing.T) {
	channel := &stampChannel{}
	notifier := NewNotifier(channel, time.Millisecond, nil)
	resolver := NewResolver(nil, &fakeStudentChats{chats: map[int64]int64{1: 100}})

	q := NewQueue(resolver, nil, notifier, 0, nil)
	mark := int16(4)
	q.Enqueue(Task{Kind: TaskMarkChanged, StudentID: 99, Discipline: "Физика", Mark: &mark})
	q.Enqueue(Task{Kind: TaskMarkChanged, StudentID: 1, Discipline: "Физика", Mark: &mark})

	q.Start(context.Background())
	defer q.Stop()

	require.Eventually(t, func() bool {
		chats, _ := channel.snapshot()
		return len(chats) == 1
	}, 2*time.Second, 5*time.Millisecond)

	chats, _ := channel.snapshot()
	assert.Equal(t, []int64{100}, chats)
}
