package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSearch(t *testing.T) {
	before := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("lexical", "ok"))
	ObserveSearch("lexical", "ok", 3, 5*time.Millisecond)
	after := testutil.ToFloat64(SearchRequestsTotal.WithLabelValues("lexical", "ok"))
	if after-before != 1 {
		t.Errorf("expected one more request, got %f", after-before)
	}
	if testutil.CollectAndCount(SearchResultsReturned) == 0 {
		t.Error("expected result count observation")
	}
}

func TestObserveIntent_None(t *testing.T) {
	before := testutil.ToFloat64(IntentDetectionsTotal.WithLabelValues("none"))
	ObserveIntent("")
	if got := testutil.ToFloat64(IntentDetectionsTotal.WithLabelValues("none")); got-before != 1 {
		t.Errorf("expected none bucket to grow by 1, got %f", got-before)
	}
}

func TestSetCorpusSize(t *testing.T) {
	SetCorpusSize(1000, 871)
	if got := testutil.ToFloat64(CorpusCircuits.WithLabelValues("all")); got != 1000 {
		t.Errorf("all = %f", got)
	}
	if got := testutil.ToFloat64(CorpusCircuits.WithLabelValues("lexical")); got != 871 {
		t.Errorf("lexical = %f", got)
	}
}
