package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

func TestRecordPublished_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordPublished("food")
	c.RecordPublished("food")
	c.RecordPublished("travel")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	found := false
	for _, mf := range metrics {
		if mf.GetName() == "mag320_articles_published_total" {
			found = true
			for _, m := range mf.GetMetric() {
				for _, label := range m.GetLabel() {
					if label.GetName() == "category" && label.GetValue() == "food" {
						if got := m.GetCounter().GetValue(); got != 2 {
							t.Errorf("foodの公開数 = %f, want 2", got)
						}
					}
				}
			}
		}
	}
	if !found {
		t.Error("mag320_articles_published_total が登録されるべき")
	}
}

func TestRecordSkipped_LabelsByReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSkipped("fashion", "filtered")
	c.RecordSkipped("fashion", "duplicate_image")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() == "mag320_items_skipped_total" {
			if len(mf.GetMetric()) != 2 {
				t.Errorf("理由別の系列数 = %d, want 2", len(mf.GetMetric()))
			}
			return
		}
	}
	t.Error("mag320_items_skipped_total が登録されるべき")
}

func TestRecordLLMLatency_ObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLLMLatency(1500 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() == "mag320_llm_latency_seconds" {
			if got := mf.GetMetric()[0].GetHistogram().GetSampleCount(); got != 1 {
				t.Errorf("サンプル数 = %d, want 1", got)
			}
			return
		}
	}
	t.Error("mag320_llm_latency_seconds が登録されるべき")
}

func TestHandler_ServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRecoveryAttempt("food", true)

	server := httptest.NewServer(Handler(reg))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "mag320_recovery_attempts_total") {
		t.Error("スクレイプ出力にリカバリ試行メトリクスが含まれるべき")
	}
}
