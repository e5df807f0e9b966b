package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/models"
	"github.com/ignatzorin/campus-gateway/internal/repository"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

type stubReader struct {
	mu    sync.Mutex
	order *entity.Order
	err   error
	calls atomic.Int32
}

func (r *stubReader) CurrentForService(ctx context.Context, token string, serviceID int64) (*entity.Order, error) {
	r.calls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.order == nil {
		return nil, r.err
	}
	cp := *r.order
	return &cp, r.err
}

func (r *stubReader) set(order *entity.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = order
}

type recordingSink struct {
	mu     sync.Mutex
	events []string
	done   chan struct{}
}

func (s *recordingSink) Done() <-chan struct{} {
	return s.done
}

func (s *recordingSink) Publish(event string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) count(event string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.events {
		if e == event {
			n++
		}
	}
	return n
}

func newClientSession(ctx context.Context) *session.Session {
	return session.New(ctx, "token-client", entity.User{ID: 10, Role: "cliente"}, time.Now().Add(time.Hour))
}

func order(status valueobject.OrderStatus) *entity.Order {
	return &entity.Order{ID: 1, ClientID: 10, ServiceID: 100, Status: status, Total: decimal.NewFromInt(25)}
}

func TestWatch_ReviewPromptOnce(t *testing.T) {
	ctx := context.Background()
	reader := &stubReader{}
	p := New(reader, repository.NewMemoryWatermarkRepository(), time.Second)
	sink := &recordingSink{}
	w := p.newWatch(ctx, newClientSession(ctx), 100, sink)

	reader.set(order(valueobject.OrderStatusInProgress))
	w.poll(ctx)
	assert.Equal(t, 1, sink.count(EventOrderStatus))
	assert.Equal(t, 0, sink.count(EventReviewPrompt))

	reader.set(order(valueobject.OrderStatusCompleted))
	w.poll(ctx)
	w.poll(ctx)
	w.poll(ctx)
	assert.Equal(t, 2, sink.count(EventOrderStatus))
	assert.Equal(t, 1, sink.count(EventReviewPrompt))

	reviewed := order(valueobject.OrderStatusCompleted)
	reviewed.Review = &entity.Review{Rating: 5, Comment: "Great"}
	reader.set(reviewed)
	w.poll(ctx)
	assert.Equal(t, 1, sink.count(EventReviewPrompt))
}

type recordingNotifier struct {
	mu      sync.Mutex
	prompts []ReviewPrompt
}

func (n *recordingNotifier) Info(ctx context.Context, sess *session.Session, message string, data any) *models.Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	prompt, _ := data.(ReviewPrompt)
	n.prompts = append(n.prompts, prompt)
	return &models.Toast{UserID: sess.UserID(), Kind: models.ToastInfo, Message: message}
}

func TestWatch_ReviewPromptStoredAsInfoToast(t *testing.T) {
	ctx := context.Background()
	reader := &stubReader{}
	notifier := &recordingNotifier{}
	p := New(reader, nil, time.Second).WithNotifier(notifier)
	w := p.newWatch(ctx, newClientSession(ctx), 100, &recordingSink{})

	reader.set(order(valueobject.OrderStatusCompleted))
	w.poll(ctx)
	w.poll(ctx)

	require.Len(t, notifier.prompts, 1)
	assert.Equal(t, int64(100), notifier.prompts[0].ServiceID)
	assert.Equal(t, int64(1), notifier.prompts[0].OrderID)
}

func TestWatch_WatermarkSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	reader := &stubReader{}
	marks := repository.NewMemoryWatermarkRepository()
	p := New(reader, marks, time.Second)
	sess := newClientSession(ctx)

	reader.set(order(valueobject.OrderStatusAlmostDone))
	first := &recordingSink{}
	p.newWatch(ctx, sess, 100, first).poll(ctx)

	reader.set(order(valueobject.OrderStatusCompleted))
	p.newWatch(ctx, sess, 100, first).poll(ctx)
	assert.Equal(t, 1, first.count(EventReviewPrompt))

	reopened := &recordingSink{}
	p.newWatch(ctx, sess, 100, reopened).poll(ctx)
	assert.Equal(t, 0, reopened.count(EventReviewPrompt))
	assert.Equal(t, 0, reopened.count(EventOrderStatus))

	wm, err := marks.Get(ctx, 10, 100)
	require.NoError(t, err)
	require.NotNil(t, wm)
	assert.Equal(t, string(valueobject.OrderStatusCompleted), wm.LastStatus)
	assert.True(t, wm.Prompted)
}

func TestWatch_NoPromptForProvider(t *testing.T) {
	ctx := context.Background()
	reader := &stubReader{}
	p := New(reader, nil, time.Second)
	provider := session.New(ctx, "token-provider", entity.User{ID: 20, Role: "estudiante"}, time.Time{})
	sink := &recordingSink{}

	reader.set(order(valueobject.OrderStatusCompleted))
	p.newWatch(ctx, provider, 100, sink).poll(ctx)

	assert.Equal(t, 1, sink.count(EventOrderStatus))
	assert.Equal(t, 0, sink.count(EventReviewPrompt))
}

func TestWatch_ErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	reader := &stubReader{}
	p := New(reader, nil, time.Second)
	sink := &recordingSink{}
	w := p.newWatch(ctx, newClientSession(ctx), 100, sink)

	reader.set(order(valueobject.OrderStatusPending))
	w.poll(ctx)

	reader.set(nil)
	reader.err = errors.New("connection refused")
	w.poll(ctx)

	assert.Equal(t, 1, sink.count(EventOrderStatus))
	assert.Equal(t, valueobject.OrderStatusPending, w.lastStatus)
}

func TestWatch_OrderDisappears(t *testing.T) {
	ctx := context.Background()
	reader := &stubReader{}
	p := New(reader, nil, time.Second)
	sink := &recordingSink{}
	w := p.newWatch(ctx, newClientSession(ctx), 100, sink)

	reader.set(order(valueobject.OrderStatusPending))
	w.poll(ctx)
	reader.set(nil)
	w.poll(ctx)
	w.poll(ctx)

	assert.Equal(t, 2, sink.count(EventOrderStatus))
	assert.Zero(t, w.lastOrderID)
}

func TestWatch_SkipsOverlappingTick(t *testing.T) {
	ctx := context.Background()
	reader := &stubReader{}
	p := New(reader, nil, time.Second)
	w := p.newWatch(ctx, newClientSession(ctx), 100, &recordingSink{})

	w.inFlight.Store(true)
	w.tick(ctx)
	w.wait()

	assert.Equal(t, int32(0), reader.calls.Load())
}

func TestWatch_StopsOnSessionTeardown(t *testing.T) {
	parent, teardown := context.WithCancel(context.Background())
	reader := &stubReader{}
	reader.set(order(valueobject.OrderStatusPending))
	p := New(reader, nil, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Watch(context.Background(), newClientSession(parent), 100, &recordingSink{})
		close(done)
	}()

	require.Eventually(t, func() bool { return reader.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	teardown()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	reader := &stubReader{}
	p := New(reader, nil, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		p.Watch(ctx, newClientSession(context.Background()), 100, &recordingSink{})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatch_StopsWhenSinkCloses(t *testing.T) {
	reader := &stubReader{}
	reader.set(order(valueobject.OrderStatusPending))
	p := New(reader, nil, 10*time.Millisecond)
	sink := &recordingSink{done: make(chan struct{})}

	done := make(chan struct{})
	go func() {
		p.Watch(context.Background(), newClientSession(context.Background()), 100, sink)
		close(done)
	}()

	require.Eventually(t, func() bool { return reader.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	close(sink.done)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

// blockingReader отвечает только после release и запоминает, был ли отменён контекст чтения.
type blockingReader struct {
	started  chan struct{}
	release  chan struct{}
	once     sync.Once
	canceled atomic.Bool
}

func (r *blockingReader) CurrentForService(ctx context.Context, token string, serviceID int64) (*entity.Order, error) {
	r.once.Do(func() { close(r.started) })
	select {
	case <-r.release:
		return order(valueobject.OrderStatusInProgress), nil
	case <-ctx.Done():
		r.canceled.Store(true)
		return nil, ctx.Err()
	}
}

func TestFetch_SharedReadSurvivesOneWatcherCancel(t *testing.T) {
	reader := &blockingReader{started: make(chan struct{}), release: make(chan struct{})}
	p := New(reader, nil, time.Second)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := p.fetch(firstCtx, "token-client", 100)
		firstErr <- err
	}()
	<-reader.started

	type result struct {
		order *entity.Order
		err   error
	}
	second := make(chan result, 1)
	go func() {
		o, err := p.fetch(context.Background(), "token-client", 100)
		second <- result{o, err}
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(reader.release)
	got := <-second
	require.NoError(t, got.err)
	require.NotNil(t, got.order)
	assert.Equal(t, valueobject.OrderStatusInProgress, got.order.Status)
	assert.False(t, reader.canceled.Load())
}

func TestNew_DefaultInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(&stubReader{}, nil, 0).Interval())
}
