package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raygun/raygun-tui/internal/model"
)

// FileName is the journal file written under the data directory
const FileName = "transitions.ndjson"

// Trigger names what caused a transition
type Trigger string

const (
	TriggerAdvance    Trigger = "advance"
	TriggerFrame      Trigger = "frame"
	TriggerBranch     Trigger = "branch"
	TriggerReflection Trigger = "reflection"
	TriggerBreathing  Trigger = "breathing"
	TriggerReset      Trigger = "reset"
	TriggerRestore    Trigger = "restore"
)

// Entry is one logged transition
type Entry struct {
	Timestamp string      `json:"timestamp"`
	Run       string      `json:"run,omitempty"` // Groups the entries of one process
	Seq       int         `json:"seq"`
	From      model.State `json:"from"`
	To        model.State `json:"to"`
	Trigger   Trigger     `json:"trigger"`
}

// Journal appends transitions to an NDJSON file for later review
type Journal struct {
	file *os.File
	mu   sync.Mutex
	seq  int
	run  string
	path string
	now  func() time.Time
}

// Open opens (or creates) the journal in dir. New entries are appended.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	path := filepath.Join(dir, FileName)
	seq, err := lastSeq(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}

	return &Journal{
		file: file,
		seq:  seq,
		run:  uuid.NewString(),
		path: path,
		now:  time.Now,
	}, nil
}

// Path returns the journal file path
func (j *Journal) Path() string {
	if j == nil {
		return ""
	}
	return j.path
}

// RunID returns the id stamped on entries written by this journal
func (j *Journal) RunID() string {
	if j == nil {
		return ""
	}
	return j.run
}

// Record appends a transition. A nil journal drops it.
func (j *Journal) Record(from, to model.State, trigger Trigger) {
	if j == nil {
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.seq++
	entry := Entry{
		Timestamp: j.now().UTC().Format(time.RFC3339Nano),
		Run:       j.run,
		Seq:       j.seq,
		From:      from,
		To:        to,
		Trigger:   trigger,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return // Silently skip if marshal fails
	}

	j.file.Write(append(data, '\n'))
	j.file.Sync()
}

// Close closes the journal file
func (j *Journal) Close() error {
	if j == nil || j.file == nil {
		return nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	return j.file.Close()
}

// Read returns every entry in the journal at path. Malformed lines are skipped.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}

// lastSeq returns the highest sequence number already in the journal
func lastSeq(path string) (int, error) {
	entries, err := Read(path)
	if err != nil {
		return 0, err
	}
	seq := 0
	for _, e := range entries {
		if e.Seq > seq {
			seq = e.Seq
		}
	}
	return seq, nil
}
