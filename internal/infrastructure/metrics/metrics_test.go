package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/homeledger/internal/domain"
	"github.com/iho/homeledger/internal/usecase"
)

var _ usecase.Observer = (*Metrics)(nil)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	m := New(registry)

	if m.TransactionsRecorded == nil || m.HTTPRequests == nil || m.Reconstructions == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.TransactionRecorded(1)

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}

func TestObserverCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.TransactionRecorded(3)
	m.TransactionRecorded(2)
	m.RecordFailed(usecase.FailureParse)
	m.RecordFailed(usecase.FailureParse)
	m.RecordFailed(usecase.FailurePartial)

	if got := testutil.ToFloat64(m.TransactionsRecorded); got != 2 {
		t.Fatalf("transactions recorded = %v, want 2", got)
	}

	if got := testutil.ToFloat64(m.RowsWritten); got != 5 {
		t.Fatalf("rows written = %v, want 5", got)
	}

	if got := testutil.ToFloat64(m.RecordErrors.WithLabelValues(usecase.FailureParse)); got != 2 {
		t.Fatalf("parse errors = %v, want 2", got)
	}

	if got := testutil.ToFloat64(m.RecordErrors.WithLabelValues(usecase.FailurePartial)); got != 1 {
		t.Fatalf("partial write errors = %v, want 1", got)
	}
}

func TestBalanceReconstructedOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())
	balance := int64(100)

	m.BalanceReconstructed(domain.Reconstruction{Balance: &balance, RowsScanned: 3}, time.Millisecond)
	m.BalanceReconstructed(domain.Reconstruction{RowsScanned: 2}, time.Millisecond)
	m.BalanceReconstructed(domain.Reconstruction{RowsScanned: 100, Truncated: true}, time.Millisecond)
	m.BalanceReconstructed(domain.Reconstruction{RowsScanned: 100, Truncated: true}, time.Millisecond)
	m.BalanceReconstructed(domain.Reconstruction{RowsScanned: 3, Overflow: true}, time.Millisecond)

	cases := map[string]float64{
		OutcomeKnown:     1,
		OutcomeUnknown:   1,
		OutcomeTruncated: 2,
		OutcomeOverflow:  1,
	}

	for outcome, want := range cases {
		if got := testutil.ToFloat64(m.Reconstructions.WithLabelValues(outcome)); got != want {
			t.Fatalf("reconstructions{%s} = %v, want %v", outcome, got, want)
		}
	}

	if got := testutil.CollectAndCount(m.ReconstructionScanned); got != 1 {
		t.Fatalf("expected one histogram series, got %d", got)
	}
}
