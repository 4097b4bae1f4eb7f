package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raygun/raygun-tui/internal/model"
)

func TestJournalRecordAndRead(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	j.Record(model.StateLanding, model.StateGrind, TriggerAdvance)
	j.Record(model.StateReframe, model.StateDepleted, TriggerBranch)
	if err := j.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := Read(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Seq != 1 || first.From != model.StateLanding || first.To != model.StateGrind || first.Trigger != TriggerAdvance {
		t.Errorf("Unexpected first entry: %+v", first)
	}
	if first.Timestamp != "2026-02-03T04:05:06Z" {
		t.Errorf("Expected fixed timestamp, got %s", first.Timestamp)
	}
	if first.Run != j.RunID() || entries[1].Run != j.RunID() {
		t.Errorf("Expected entries to carry run id %s", j.RunID())
	}
	if entries[1].Trigger != TriggerBranch || entries[1].Seq != 2 {
		t.Errorf("Unexpected second entry: %+v", entries[1])
	}
}

func TestJournalContinuesSequenceAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	j, err := Open(dir)
	if err != nil {
		t.Fatalf("Failed to open journal: %v", err)
	}
	j.Record(model.StateLanding, model.StateGrind, TriggerAdvance)
	j.Close()

	j, err = Open(dir)
	if err != nil {
		t.Fatalf("Failed to reopen journal: %v", err)
	}
	j.Record(model.StateGrind, model.StateLanding, TriggerReset)
	j.Close()

	entries, err := Read(j.Path())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 2 || entries[1].Seq != 2 {
		t.Errorf("Expected sequence to continue, got %+v", entries)
	}
	if entries[0].Run == "" || entries[0].Run == entries[1].Run {
		t.Errorf("Expected a distinct run id per open, got %q and %q", entries[0].Run, entries[1].Run)
	}
}

func TestJournalSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `{"seq":1,"from":"landing","to":"grind","trigger":"advance"}
not json at all
{"seq":2,"from":"grind","to":"frame","trigger":"advance"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	entries, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("Expected malformed line to be skipped, got %d entries", len(entries))
	}
}

func TestReadMissingJournal(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "missing.ndjson"))
	if err != nil {
		t.Fatalf("Expected no error for missing journal, got %v", err)
	}
	if entries != nil {
		t.Errorf("Expected no entries, got %v", entries)
	}
}

func TestNilJournalIsNoop(t *testing.T) {
	var j *Journal
	j.Record(model.StateLanding, model.StateGrind, TriggerAdvance)
	if err := j.Close(); err != nil {
		t.Errorf("Expected nil close on nil journal, got %v", err)
	}
	if j.Path() != "" {
		t.Errorf("Expected empty path for nil journal")
	}
}
