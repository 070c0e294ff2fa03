package bot

import "sync"

// userQueues runs the jobs of one user strictly in submission order and
// jobs of different users concurrently. A user's queue exists only while it
// has work.
type userQueues struct {
	mu     sync.Mutex
	queues map[int64]*userQueue
	wg     sync.WaitGroup
}

type userQueue struct {
	pending []func()
}

func newUserQueues() *userQueues {
	return &userQueues{queues: make(map[int64]*userQueue)}
}

// Submit appends job to the user's queue. Calls must come from one goroutine
// for their order to be kept.
func (q *userQueues) Submit(userID int64, job func()) {
	q.wg.Add(1)

	q.mu.Lock()
	uq, running := q.queues[userID]
	if !running {
		uq = &userQueue{}
		q.queues[userID] = uq
	}
	uq.pending = append(uq.pending, job)
	q.mu.Unlock()

	if !running {
		go q.drain(userID, uq)
	}
}

func (q *userQueues) drain(userID int64, uq *userQueue) {
	for {
		q.mu.Lock()
		if len(uq.pending) == 0 {
			delete(q.queues, userID)
			q.mu.Unlock()
			return
		}
		job := uq.pending[0]
		uq.pending = uq.pending[1:]
		q.mu.Unlock()

		func() {
			defer q.wg.Done()
			job()
		}()
	}
}

// Wait blocks until every submitted job has run.
func (q *userQueues) Wait() {
	q.wg.Wait()
}

func (q *userQueues) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queues)
}
