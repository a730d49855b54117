package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("run")
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("check", time.Millisecond)
		}()
	}
	wg.Wait()
	tm.End(idx, "4 files")
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 || r.Phases[1].Name != "check" || r.Phases[1].DurationMS != 4 {
		t.Fatalf("report %+v", r)
	}
	if r.TotalMS != r.Phases[0].DurationMS {
		t.Fatalf("total %v must only count begun phases", r.TotalMS)
	}
	if s := tm.Summary(); !strings.Contains(s, "// 4 files") || !strings.Contains(s, "total") {
		t.Fatalf("summary:\n%s", s)
	}
}
