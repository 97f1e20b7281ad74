package handler

import (
	"container/list"
	"log/slog"
	"runtime/debug"
	"sync"
)

// UserQueues runs jobs for one user strictly in the order they were
// submitted. Each user with pending work gets its own worker goroutine, so
// users never wait on each other.
type UserQueues struct {
	mu     sync.Mutex
	queues map[int64]*list.List
	wg     sync.WaitGroup
}

func NewUserQueues() *UserQueues {
	return &UserQueues{queues: make(map[int64]*list.List)}
}

// Submit appends a job to the user's queue and never blocks on running work.
func (q *UserQueues) Submit(userID int64, job func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if jobs, ok := q.queues[userID]; ok {
		jobs.PushBack(job)
		return
	}

	jobs := list.New()
	jobs.PushBack(job)
	q.queues[userID] = jobs
	q.wg.Add(1)
	go q.drain(userID, jobs)
}

// Pending reports how many jobs of the user have not started yet.
func (q *UserQueues) Pending(userID int64) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if jobs, ok := q.queues[userID]; ok {
		return jobs.Len()
	}
	return 0
}

// Wait blocks until every submitted job has finished.
func (q *UserQueues) Wait() {
	q.wg.Wait()
}

func (q *UserQueues) drain(userID int64, jobs *list.List) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		front := jobs.Front()
		if front == nil {
			delete(q.queues, userID)
			q.mu.Unlock()
			return
		}
		jobs.Remove(front)
		q.mu.Unlock()

		run(userID, front.Value.(func()))
	}
}

func run(userID int64, job func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered in user job",
				"panic", r,
				"user_id", userID,
				"stack", string(debug.Stack()),
			)
		}
	}()
	job()
}
