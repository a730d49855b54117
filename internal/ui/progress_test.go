package ui

import (
	"strings"
	"testing"

	"lector/internal/driver"
)

func TestApplyEventTracksFiles(t *testing.T) {
	m := NewProgressModel("check", []string{"a.rs", "b.md"}, nil).(*progressModel)

	steps := []struct {
		ev   driver.Event
		want string
	}{
		{driver.Event{File: "a.rs", Stage: driver.StageRead, Status: driver.StatusWorking}, "reading"},
		{driver.Event{File: "a.rs", Stage: driver.StageCheck, Status: driver.StatusWorking}, "checking"},
		{driver.Event{File: "a.rs", Stage: driver.StageWrite, Status: driver.StatusDone}, "done"},
		// после финального события статус не меняется
		{driver.Event{File: "a.rs", Stage: driver.StageRead, Status: driver.StatusWorking}, "done"},
		{driver.Event{File: "nope.rs", Stage: driver.StageRead, Status: driver.StatusWorking}, "done"},
	}
	for i, s := range steps {
		m.applyEvent(s.ev)
		if got := m.items[0].status; got != s.want {
			t.Fatalf("step %d: status %q, want %q", i, got, s.want)
		}
	}
	if got := m.percent(); got != 0.5 {
		t.Fatalf("percent = %v", got)
	}

	m.applyEvent(driver.Event{File: "b.md", Stage: driver.StageRead, Status: driver.StatusError})
	if m.failed != 1 || m.finished() != 2 || m.percent() != 1 {
		t.Fatalf("failed=%d finished=%d", m.failed, m.finished())
	}
	if view := m.View(); !strings.Contains(view, "check 2/2, 1 failed") || !strings.Contains(view, "b.md") {
		t.Fatalf("view:\n%s", view)
	}
}

func TestUpdateQuitsWhenEventsClose(t *testing.T) {
	ch := make(chan driver.Event)
	close(ch)
	m := NewProgressModel("fix", []string{"a.rs"}, ch).(*progressModel)
	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("msg = %T", msg)
	}
	if _, cmd := m.Update(msg); cmd == nil || !m.done {
		t.Fatal("model must finish")
	}
}

func TestVisibleRowsPreferActiveFiles(t *testing.T) {
	files := make([]string, maxRows+5)
	for i := range files {
		files[i] = strings.Repeat("f", i+1) + ".rs"
	}
	m := NewProgressModel("check", files, nil).(*progressModel)
	m.applyEvent(driver.Event{File: files[maxRows+3], Stage: driver.StageCheck, Status: driver.StatusWorking})
	rows := m.visible()
	if len(rows) != 1 || rows[0].path != files[maxRows+3] {
		t.Fatalf("rows %v", rows)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("src/very/long/path.rs", 10); got != "src/ver..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("a.rs", 10); got != "a.rs" {
		t.Fatalf("truncate = %q", got)
	}
}
