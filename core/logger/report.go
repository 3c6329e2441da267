package logger

import (
	"encoding/json"
	"sort"
)

// Report holds statistics about the logged events.
type Report struct {
	LogEntries int        `json:"log_entries"`
	Sessions   StrCounter `json:"sessions"`
	EventTypes StrCounter `json:"event_types"`

	RunCommand    RunCommandReport `json:"run_command_report"`
	SpawnFailures *PathCounter     `json:"spawn_failures"`
	Builtins      StrCounter       `json:"builtins"`
	ReadErrors    StrCounter       `json:"read_errors"`
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		SpawnFailures: NewPathCounter("command", "error"),
	}
}

func (r *Report) Update(le *Entry) {
	r.LogEntries++
	r.Sessions.Increment(le.SessionID)
	r.EventTypes.Increment(le.Type)

	switch le.Type {
	case TypeRunCommand:
		r.RunCommand.update(le)
	case TypeSpawnFailure:
		r.SpawnFailures.Increment(commandName(le), le.Error)
	case TypeBuiltin:
		r.Builtins.Increment(commandName(le))
	case TypeReadError:
		r.ReadErrors.Increment(le.Error)
	}
}

type RunCommandReport struct {
	// Name of the command
	CommandNames StrCounter `json:"command_names"`
	// Number of stages that exited non-zero.
	Failures int `json:"failures"`
	// Longest pipeline seen.
	MaxStages int `json:"max_stages"`
}

func (r *RunCommandReport) update(le *Entry) {
	r.CommandNames.Increment(commandName(le))
	if le.Status != 0 {
		r.Failures++
	}
	if le.Stage+1 > r.MaxStages {
		r.MaxStages = le.Stage + 1
	}
}

func commandName(le *Entry) string {
	if len(le.Command) == 0 {
		return ""
	}
	return le.Command[0]
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of distinct tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count for the tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
