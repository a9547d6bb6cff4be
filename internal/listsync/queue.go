package listsync

import (
	"context"
)

// job is one remote operation waiting for the worker.
type job struct {
	ctx  context.Context
	run  func(ctx context.Context) (*Event, error)
	done chan error
}

// submit queues fn and waits for its result. Jobs run one at a time in the
// order submit was called. If ctx ends while the job is still queued, the
// job is dropped and submit returns ctx.Err(). Once the job has started,
// submit returns the job's own result, so an error always means nothing
// was committed.
func (s *Synchronizer) submit(ctx context.Context, fn func(ctx context.Context) (*Event, error)) error {
	j := &job{ctx: ctx, run: fn, done: make(chan error, 1)}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.queue = append(s.queue, j)
	s.pending++
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		if s.dequeue(j) {
			return ctx.Err()
		}
		return <-j.done
	}
}

// dequeue removes j if it has not been handed to the worker yet.
func (s *Synchronizer) dequeue(j *job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.queue {
		if q == j {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			s.pending--
			return true
		}
	}
	return false
}

// next pops the oldest queued job. Nothing is handed out once closed.
func (s *Synchronizer) next() (*job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.queue) == 0 {
		return nil, false
	}
	j := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return j, true
}

func (s *Synchronizer) worker() {
	defer close(s.stopped)
	for {
		select {
		case <-s.quit:
			return
		default:
		}

		j, ok := s.next()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.quit:
				return
			}
		}
		s.execute(j)
	}
}

// execute runs j and publishes its event once the job no longer counts as
// pending, then releases the caller.
func (s *Synchronizer) execute(j *job) {
	var ev *Event
	err := j.ctx.Err()
	if err == nil {
		ev, err = j.run(j.ctx)
	}

	s.mu.Lock()
	s.pending--
	s.mu.Unlock()

	if ev != nil {
		s.emit(*ev)
	}
	j.done <- err
}

// Close stops the worker after the running job, if any, finishes. Jobs
// still queued fail with ErrClosed, as does every later operation.
func (s *Synchronizer) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		close(s.quit)
		<-s.stopped

		s.mu.Lock()
		queued := s.queue
		s.queue = nil
		s.pending -= len(queued)
		s.mu.Unlock()

		for _, j := range queued {
			j.done <- ErrClosed
		}
	})
	return nil
}
