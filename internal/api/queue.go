package telegram

import "sync"

// senderQueue выполняет задачи одного отправителя строго в порядке
// поступления, задачи разных отправителей параллельно. На каждого
// отправителя с непустой очередью работает одна горутина.
type senderQueue struct {
	mu     sync.Mutex
	queues map[int64][]func()
	wg     sync.WaitGroup
}

func newSenderQueue() *senderQueue {
	return &senderQueue{queues: make(map[int64][]func())}
}

// Go ставит задачу в очередь отправителя
func (q *senderQueue) Go(sender int64, task func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Ключ в карте есть, пока жива горутина отправителя.
	tasks, running := q.queues[sender]
	q.queues[sender] = append(tasks, task)
	if running {
		return
	}

	q.wg.Add(1)
	go q.drain(sender)
}

// Wait дожидается опустошения всех очередей
func (q *senderQueue) Wait() {
	q.wg.Wait()
}

func (q *senderQueue) drain(sender int64) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		tasks := q.queues[sender]
		if len(tasks) == 0 {
			delete(q.queues, sender)
			q.mu.Unlock()
			return
		}
		task := tasks[0]
		tasks[0] = nil
		q.queues[sender] = tasks[1:]
		q.mu.Unlock()

		task()
	}
}

// active число отправителей с работающей горутиной
func (q *senderQueue) active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queues)
}
