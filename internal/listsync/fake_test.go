package listsync

import (
	"context"
	"testing"
	"time"

	"github.com/dbmrq/gorestaurant/internal/food"
)

// call is one request the synchronizer made to the fake client. The test
// answers it by sending on reply.
type call struct {
	op    string
	draft food.Draft
	item  food.Item
	id    int
	reply chan reply
}

type reply struct {
	item  food.Item
	items []food.Item
	err   error
}

// fakeClient hands every request to the test goroutine over a channel, so
// tests decide when and how each request completes.
type fakeClient struct {
	calls chan call
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: make(chan call)}
}

func (f *fakeClient) do(ctx context.Context, c call) reply {
	c.reply = make(chan reply, 1)
	select {
	case f.calls <- c:
	case <-ctx.Done():
		return reply{err: ctx.Err()}
	}
	select {
	case r := <-c.reply:
		return r
	case <-ctx.Done():
		return reply{err: ctx.Err()}
	}
}

func (f *fakeClient) List(ctx context.Context) ([]food.Item, error) {
	r := f.do(ctx, call{op: "list"})
	return r.items, r.err
}

func (f *fakeClient) Create(ctx context.Context, d food.Draft) (food.Item, error) {
	r := f.do(ctx, call{op: "create", draft: d})
	return r.item, r.err
}

func (f *fakeClient) Update(ctx context.Context, it food.Item) (food.Item, error) {
	r := f.do(ctx, call{op: "update", item: it, id: it.ID})
	return r.item, r.err
}

func (f *fakeClient) Delete(ctx context.Context, id int) error {
	r := f.do(ctx, call{op: "delete", id: id})
	return r.err
}

const testTimeout = 2 * time.Second

// expect receives the next request and checks its operation.
func (f *fakeClient) expect(t *testing.T, op string) call {
	t.Helper()
	select {
	case c := <-f.calls:
		if c.op != op {
			t.Fatalf("next request = %s, want %s", c.op, op)
		}
		return c
	case <-time.After(testTimeout):
		t.Fatalf("timed out waiting for %s request", op)
		return call{}
	}
}

// expectNone fails if a request arrives within a short window.
func (f *fakeClient) expectNone(t *testing.T) {
	t.Helper()
	select {
	case c := <-f.calls:
		t.Fatalf("unexpected %s request", c.op)
	case <-time.After(50 * time.Millisecond):
	}
}

// async runs fn on its own goroutine and returns its error on a channel.
func async(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	return done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for operation to return")
		return nil
	}
}

// waitPending blocks until n operations are queued or running.
func waitPending(t *testing.T, s *Synchronizer, n int) {
	t.Helper()
	deadline := time.Now().Add(testTimeout)
	for s.Snapshot().Pending != n {
		if time.Now().After(deadline) {
			t.Fatalf("pending = %d, want %d", s.Snapshot().Pending, n)
		}
		time.Sleep(time.Millisecond)
	}
}
