package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mtl-news/maritime-desk/internal/metrics"
)

type stubPublisher struct {
	id    string
	typ   string
	err   error
	calls int
	got   Event
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(_ context.Context, evt Event) error {
	s.calls++
	s.got = evt
	return s.err
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: TypeHTTP}
	bad := &stubPublisher{id: "bad", typ: TypeQueue, err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad}, nil)

	if fanout.Size() != 2 {
		t.Fatalf("nil publishers should be dropped, size = %d", fanout.Size())
	}

	count, err := fanout.Publish(context.Background(), sampleEvent())
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil || !strings.Contains(err.Error(), "queue publisher[bad] article a1") {
		t.Fatalf("expected aggregated error naming the failing publisher, got %v", err)
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("every publisher should be called once: ok=%d bad=%d", ok.calls, bad.calls)
	}
	if ok.got.WatchID != "freight-kr" {
		t.Fatalf("event not forwarded: %#v", ok.got)
	}
}

func TestFanoutRecordsOutcomePerSink(t *testing.T) {
	hook := &stubPublisher{id: "ops-hook", typ: TypeHTTP}
	queue := &stubPublisher{id: "ops-queue", typ: TypeQueue, err: errors.New("throttled")}
	fanout := NewFanout([]Publisher{hook, queue}, nil)
	evt := sampleEvent()

	hookOK := metrics.SinkDeliveriesTotal.WithLabelValues(evt.WatchID, "ops-hook", TypeHTTP, metrics.StatusOK)
	queueFailed := metrics.SinkDeliveriesTotal.WithLabelValues(evt.WatchID, "ops-queue", TypeQueue, metrics.StatusError)
	queueOK := metrics.SinkDeliveriesTotal.WithLabelValues(evt.WatchID, "ops-queue", TypeQueue, metrics.StatusOK)
	hookBefore, failedBefore, queueOKBefore := testutil.ToFloat64(hookOK), testutil.ToFloat64(queueFailed), testutil.ToFloat64(queueOK)

	if _, err := fanout.Publish(context.Background(), evt); err == nil {
		t.Fatal("expected the queue failure to surface")
	}

	if got := testutil.ToFloat64(hookOK) - hookBefore; got != 1 {
		t.Fatalf("hook ok deliveries grew by %v, want 1", got)
	}
	if got := testutil.ToFloat64(queueFailed) - failedBefore; got != 1 {
		t.Fatalf("queue failed deliveries grew by %v, want 1", got)
	}
	if got := testutil.ToFloat64(queueOK) - queueOKBefore; got != 0 {
		t.Fatalf("queue ok deliveries grew by %v, want 0", got)
	}
}

func TestFanoutStopsOnCancelledContext(t *testing.T) {
	first := &stubPublisher{id: "first", typ: TypeHTTP}
	fanout := NewFanout([]Publisher{first}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := fanout.Publish(ctx, sampleEvent())
	if count != 0 || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected no delivery and context.Canceled, got %d, %v", count, err)
	}
	if first.calls != 0 {
		t.Fatalf("sink should not be called after cancellation, calls = %d", first.calls)
	}
}

func TestFanoutSummary(t *testing.T) {
	fanout := NewFanout([]Publisher{&stubPublisher{id: "hook", typ: TypeHTTP}}, nil)
	got := fanout.Summary()
	if len(got) != 1 || got[0]["id"] != "hook" || got[0]["type"] != TypeHTTP {
		t.Fatalf("unexpected summary %#v", got)
	}
}

func TestFanoutEmpty(t *testing.T) {
	var fanout *Fanout
	count, err := fanout.Publish(context.Background(), sampleEvent())
	if count != 0 || err != nil {
		t.Fatalf("nil fanout should be a no-op, got %d, %v", count, err)
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()
	pubs, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].ID() != "http" || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %#v", pubs)
	}
}

func TestBuildAllSkipsDisabled(t *testing.T) {
	off := false
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "off", Type: TypeHTTP, Enabled: &off, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
		{ID: "on", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].ID() != "on" {
		t.Fatalf("expected only the enabled publisher, got %#v", pubs)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "x", Type: "carrier-pigeon"},
	}, nil)
	if err == nil || !strings.Contains(err.Error(), `build publisher "x"`) {
		t.Fatalf("expected build error, got %v", err)
	}
}
