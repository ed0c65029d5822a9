package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := Register(reg); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestObserveBuild(t *testing.T) {
	before := testutil.ToFloat64(Rebuilds.WithLabelValues("floor", "solid"))
	ObserveBuild("floor", "solid", 2)
	after := testutil.ToFloat64(Rebuilds.WithLabelValues("floor", "solid"))
	if after-before != 1 {
		t.Errorf("expected one rebuild, got %v", after-before)
	}
}

func TestObservePick(t *testing.T) {
	before := testutil.ToFloat64(Picks.WithLabelValues(PickAlphaMiss))
	ObservePick(PickAlphaMiss)
	ObservePick(PickAlphaMiss)
	if got := testutil.ToFloat64(Picks.WithLabelValues(PickAlphaMiss)) - before; got != 2 {
		t.Errorf("expected 2 alpha misses, got %v", got)
	}
}
