package service

import "github.com/Roy42022p/Backend/internal/application/notify"

// newTestQueue возвращает очередь без запущенного воркера: задачи просто
// копятся в канале и не обрабатываются.
func newTestQueue() *notify.Queue {
	return notify.NewQueue(nil, nil, nil, 0, nil)
}
