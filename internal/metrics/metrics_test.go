package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordFetchIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(UpstreamFetchTotal.WithLabelValues("scfi", StatusEmpty))
	RecordFetch("scfi", StatusEmpty, time.Now())
	after := testutil.ToFloat64(UpstreamFetchTotal.WithLabelValues("scfi", StatusEmpty))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestRecordSkippedIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(ArticlesSkippedTotal.WithLabelValues("w"))
	RecordSkipped("w", 0)
	RecordSkipped("w", 2)
	after := testutil.ToFloat64(ArticlesSkippedTotal.WithLabelValues("w"))
	if after-before != 2 {
		t.Fatalf("expected counter to grow by 2, got %v", after-before)
	}
}

func TestRecordDeliverySplitsByOutcome(t *testing.T) {
	ok := SinkDeliveriesTotal.WithLabelValues("w", "hook", "http", StatusOK)
	failed := SinkDeliveriesTotal.WithLabelValues("w", "hook", "http", StatusError)
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordDelivery("w", "hook", "http", nil)
	RecordDelivery("w", "hook", "http", errors.New("503"))
	RecordDelivery("w", "hook", "http", errors.New("timeout"))

	if got := testutil.ToFloat64(ok) - okBefore; got != 1 {
		t.Fatalf("expected 1 ok delivery, got %v", got)
	}
	if got := testutil.ToFloat64(failed) - failedBefore; got != 2 {
		t.Fatalf("expected 2 failed deliveries, got %v", got)
	}
}
