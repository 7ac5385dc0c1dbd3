package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/tada/internal/core/schedule/scheduletest"
	"github.com/colonyops/tada/internal/core/toast"
)

func TestWatch_queue(t *testing.T) {
	m := New()
	sched := scheduletest.NewManual()
	q := toast.NewQueue(sched, time.Second)
	stop := m.Watch(q)
	defer stop()

	q.Enqueue("a", toast.KindSuccess)
	q.Enqueue("b", toast.KindError)
	q.Enqueue("c", toast.KindError)

	assert.InDelta(t, 1, testutil.ToFloat64(m.toastsEnqueued.WithLabelValues("success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.toastsEnqueued.WithLabelValues("error")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.toastsVisible), 0)

	require.True(t, q.Dismiss(2))
	assert.InDelta(t, 1, testutil.ToFloat64(m.toastsRemoved), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.toastsVisible), 0)

	q.DismissAll()
	assert.InDelta(t, 3, testutil.ToFloat64(m.toastsRemoved), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.toastsVisible), 0)
}

func TestWatch_queue_expiry(t *testing.T) {
	m := New()
	sched := scheduletest.NewManual()
	q := toast.NewQueue(sched, time.Second)
	m.Watch(q)

	q.Enqueue("a", "")
	sched.Advance(time.Second)

	assert.InDelta(t, 1, testutil.ToFloat64(m.toastsRemoved), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.toastsVisible), 0)
}

func TestWatch_slot(t *testing.T) {
	m := New()
	sched := scheduletest.NewManual()
	s := toast.NewSlot(sched, time.Second)
	m.Watch(s)

	s.Enqueue("a", toast.KindInfo)
	assert.InDelta(t, 1, testutil.ToFloat64(m.toastsVisible), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.toastsEnqueued.WithLabelValues("info")), 0)

	sched.Advance(time.Second)
	assert.InDelta(t, 0, testutil.ToFloat64(m.toastsVisible), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.toastsRemoved), 0)
}

func TestWatch_slot_overwrite_counts_displaced(t *testing.T) {
	m := New()
	sched := scheduletest.NewManual()
	s := toast.NewSlot(sched, time.Second)
	m.Watch(s)

	s.Enqueue("a", "")
	s.Enqueue("b", "")
	assert.InDelta(t, 2, testutil.ToFloat64(m.toastsEnqueued.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.toastsRemoved), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.toastsVisible), 0)

	sched.Advance(time.Second)
	assert.InDelta(t, 2, testutil.ToFloat64(m.toastsRemoved), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.toastsVisible), 0)
}

func TestWatch_queue_gauge_follows_apply_order(t *testing.T) {
	m := New()
	sched := scheduletest.NewManual()
	q := toast.NewQueue(sched, time.Second)

	// Hold delivery of the first change so the timer removal is applied
	// while the add is still being delivered.
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	q.Subscribe(func(c toast.Change) {
		if c.Op == toast.OpAdded {
			once.Do(func() {
				close(entered)
				<-release
			})
		}
	})
	m.Watch(q)

	done := make(chan struct{})
	go func() {
		q.Enqueue("a", "")
		close(done)
	}()

	<-entered
	sched.Advance(time.Second)
	close(release)
	<-done

	assert.Equal(t, 0, q.Len())
	assert.InDelta(t, 0, testutil.ToFloat64(m.toastsVisible), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.toastsRemoved), 0)
}

func TestWatch_stop(t *testing.T) {
	m := New()
	q := toast.NewQueue(scheduletest.NewManual(), time.Second)
	stop := m.Watch(q)
	stop()

	q.Enqueue("a", "")
	assert.InDelta(t, 0, testutil.ToFloat64(m.toastsVisible), 0)
}

func TestMiddleware_labels_route_pattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/todos/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/todos/7", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/todos/{id}", "418"))
	assert.InDelta(t, 1, got, 0)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tada_http_requests_total")
}

func TestNew_namespace(t *testing.T) {
	m := New(WithNamespace("custom"))
	m.toastsVisible.Set(1)

	n, err := testutil.GatherAndCount(m.Registry(), "custom_toasts_visible")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
