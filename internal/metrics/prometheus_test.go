package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorderCountsResults(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveDuration(OperationLayout, 20*time.Millisecond, true)
	pr.IncResult(OperationLayout, ResultSuccess)
	pr.IncResult(OperationLayout, ResultStale)
	pr.IncResult(OperationContent, ResultSkipped)
	pr.SetInflight(2)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	counts := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "cmslayout_sync_results_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := ""
			for _, label := range m.GetLabel() {
				key += label.GetName() + "=" + label.GetValue() + ";"
			}
			counts[key] = m.GetCounter().GetValue()
		}
	}
	if counts["operation=layout;result=stale;"] != 1 {
		t.Fatalf("expected one stale layout result, got %v", counts)
	}
	if counts["operation=content;result=skipped;"] != 1 {
		t.Fatalf("expected one skipped content result, got %v", counts)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveDuration(OperationFetch, time.Second, false)
	pr.IncResult(OperationFetch, ResultFailed)
	pr.SetInflight(1)

	if _, ok := Ensure(nil).(NoopRecorder); !ok {
		t.Fatalf("expected noop recorder")
	}
}
