package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/ignatzorin/campus-gateway/internal/domain/entity"
	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/goroutine"
	"github.com/ignatzorin/campus-gateway/internal/logger"
	"github.com/ignatzorin/campus-gateway/internal/metrics"
	"github.com/ignatzorin/campus-gateway/internal/models"
	"github.com/ignatzorin/campus-gateway/internal/session"
)

// События, которые получает подключение наблюдателя.
const (
	EventOrderStatus  = "order_status"
	EventReviewPrompt = "review_prompt"
)

const (
	DefaultInterval = 5 * time.Second
	// fetchTimeout ограничивает общее чтение, которое не отменяется вместе с одним наблюдателем.
	fetchTimeout = 30 * time.Second
)

// OrderReader читает текущий заказ пользователя на услугу.
type OrderReader interface {
	CurrentForService(ctx context.Context, token string, serviceID int64) (*entity.Order, error)
}

// WatermarkStore хранит последний увиденный статус между открытиями страницы.
type WatermarkStore interface {
	Get(ctx context.Context, userID, serviceID int64) (*models.Watermark, error)
	Save(ctx context.Context, wm *models.Watermark) error
}

// Sink получает события одного наблюдателя. Done закрывается, когда
// получатель отключился, и наблюдение на этом заканчивается.
type Sink interface {
	Publish(event string, data any) error
	Done() <-chan struct{}
}

// Notifier сохраняет приглашение оценить заказ в истории уведомлений.
type Notifier interface {
	Info(ctx context.Context, sess *session.Session, message string, data any) *models.Toast
}

// StatusEvent - изменение текущего заказа на услугу. Order == nil, если заказа больше нет.
type StatusEvent struct {
	ServiceID int64                   `json:"id_servicio"`
	Order     *entity.Order           `json:"pedido"`
	Previous  valueobject.OrderStatus `json:"estado_anterior,omitempty"`
}

// ReviewPrompt - приглашение оценить завершённый заказ.
type ReviewPrompt struct {
	ServiceID int64  `json:"id_servicio"`
	OrderID   int64  `json:"id_pedido"`
	Message   string `json:"mensaje"`
}

// Poller периодически перечитывает заказы открытых страниц услуг.
type Poller struct {
	orders   OrderReader
	marks    WatermarkStore
	interval time.Duration
	group    singleflight.Group
	notifier Notifier
}

func New(orders OrderReader, marks WatermarkStore, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		orders:   orders,
		marks:    marks,
		interval: interval,
	}
}

// WithNotifier дублирует приглашение оценить заказ в историю уведомлений.
func (p *Poller) WithNotifier(n Notifier) *Poller {
	p.notifier = n
	return p
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Watch наблюдает за заказом пользователя на услугу, пока не отменён ctx
// или не завершена сессия. Первый опрос выполняется сразу.
func (p *Poller) Watch(ctx context.Context, sess *session.Session, serviceID int64, sink Sink) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(sess.Context(), cancel)
	defer stop()

	w := p.newWatch(ctx, sess, serviceID, sink)
	w.log.Debug("poller: наблюдение начато")

	metrics.ActiveWatches.Inc()
	defer metrics.ActiveWatches.Dec()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	w.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			w.wait()
			w.log.Debug("poller: наблюдение остановлено")
			return
		case <-sink.Done():
			cancel()
			w.wait()
			w.log.Debug("poller: подключение закрыто, наблюдение остановлено")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

// fetch объединяет одновременные чтения одного заказа разными наблюдателями.
// Отмена ctx прерывает ожидание только этого наблюдателя, общее чтение продолжается.
func (p *Poller) fetch(ctx context.Context, token string, serviceID int64) (*entity.Order, error) {
	key := fmt.Sprintf("%s:%d", token, serviceID)
	ch := p.group.DoChan(key, func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return p.orders.CurrentForService(readCtx, token, serviceID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	order, _ := res.Val.(*entity.Order)
	if order == nil {
		return nil, nil
	}
	cp := *order
	return &cp, nil
}

type watch struct {
	id        uuid.UUID
	p         *Poller
	sess      *session.Session
	serviceID int64
	sink      Sink
	log       *logrus.Entry

	inFlight atomic.Bool
	group    goroutine.Group

	mu          sync.Mutex
	lastOrderID int64
	lastStatus  valueobject.OrderStatus
	prompted    bool
}

func (p *Poller) newWatch(ctx context.Context, sess *session.Session, serviceID int64, sink Sink) *watch {
	w := &watch{
		id:        uuid.New(),
		p:         p,
		sess:      sess,
		serviceID: serviceID,
		sink:      sink,
	}
	w.log = logger.Component("poller").WithFields(logrus.Fields{
		"watch_id":   w.id,
		"session_id": sess.ID,
		"service_id": serviceID,
	})

	if p.marks == nil {
		return w
	}
	wm, err := p.marks.Get(ctx, sess.UserID(), serviceID)
	if err != nil {
		w.log.WithError(err).Warn("poller: не удалось прочитать водяной знак")
		return w
	}
	if wm != nil {
		w.lastOrderID = wm.OrderID
		w.lastStatus = valueobject.OrderStatus(wm.LastStatus)
		w.prompted = wm.Prompted
	}
	return w
}

// tick запускает опрос в фоне. Пока предыдущий опрос не завершён, новый не начинается.
func (w *watch) tick(ctx context.Context) {
	if !w.inFlight.CompareAndSwap(false, true) {
		metrics.PollTicksTotal.WithLabelValues("skipped").Inc()
		return
	}
	w.group.Go("poller-tick", func() {
		defer w.inFlight.Store(false)
		w.poll(ctx)
	})
}

func (w *watch) wait() {
	w.group.Wait()
}

func (w *watch) poll(ctx context.Context) {
	order, err := w.p.fetch(ctx, w.sess.Token, w.serviceID)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.PollTicksTotal.WithLabelValues("error").Inc()
		w.log.WithError(err).Debug("poller: опрос не удался")
		return
	}
	metrics.PollTicksTotal.WithLabelValues("ok").Inc()
	w.observe(ctx, order)
}

// observe сравнивает заказ с последним увиденным и публикует события.
func (w *watch) observe(ctx context.Context, order *entity.Order) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if order == nil {
		if w.lastOrderID == 0 {
			return
		}
		w.publish(EventOrderStatus, StatusEvent{ServiceID: w.serviceID, Previous: w.lastStatus})
		w.lastOrderID, w.lastStatus, w.prompted = 0, "", false
		w.persist(ctx)
		return
	}

	var previous valueobject.OrderStatus
	if order.ID == w.lastOrderID {
		previous = w.lastStatus
	} else {
		w.prompted = false
	}

	changed := order.ID != w.lastOrderID || order.Status != w.lastStatus
	if changed {
		w.publish(EventOrderStatus, StatusEvent{ServiceID: w.serviceID, Order: order, Previous: previous})
	}

	if w.shouldPrompt(order, previous) {
		prompt := ReviewPrompt{
			ServiceID: w.serviceID,
			OrderID:   order.ID,
			Message:   "Tu pedido fue completado. ¡Califica el servicio!",
		}
		w.publish(EventReviewPrompt, prompt)
		if w.p.notifier != nil {
			w.p.notifier.Info(ctx, w.sess, prompt.Message, prompt)
		}
		w.prompted = true
		changed = true
		metrics.ReviewPromptsTotal.Inc()
	}

	w.lastOrderID = order.ID
	w.lastStatus = order.Status
	if changed {
		w.persist(ctx)
	}
}

func (w *watch) shouldPrompt(order *entity.Order, previous valueobject.OrderStatus) bool {
	return order.NeedsReviewPrompt() &&
		order.ClientID == w.sess.UserID() &&
		previous != valueobject.OrderStatusCompleted &&
		!w.prompted
}

func (w *watch) publish(event string, data any) {
	if err := w.sink.Publish(event, data); err != nil {
		w.log.WithError(err).WithField("event", event).Debug("poller: событие не доставлено")
	}
}

func (w *watch) persist(ctx context.Context) {
	if w.p.marks == nil {
		return
	}
	wm := &models.Watermark{
		UserID:     w.sess.UserID(),
		ServiceID:  w.serviceID,
		OrderID:    w.lastOrderID,
		LastStatus: string(w.lastStatus),
		Prompted:   w.prompted,
	}
	if err := w.p.marks.Save(ctx, wm); err != nil {
		w.log.WithError(err).Warn("poller: не удалось сохранить водяной знак")
	}
}
