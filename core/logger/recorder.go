package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	TypeRunCommand   = "run_command"
	TypeSpawnFailure = "spawn_failure"
	TypeBuiltin      = "builtin"
	TypeReadError    = "read_error"
)

// Event is a single thing that happened in the shell.
type Event struct {
	Type    string
	Command []string
	// Stage is the zero based position of the command in its pipeline.
	Stage  int
	Status int
	Error  string
}

// EventRecorder stores events in an external datastore.
type EventRecorder interface {
	Record(event Event) error
}

// NopRecorder drops all events.
type NopRecorder struct{}

var _ EventRecorder = NopRecorder{}

// Record implements EventRecorder.
func (NopRecorder) Record(Event) error {
	return nil
}

// LogRecorder is a callback that stores encoded entries.
type LogRecorder func(le *structpb.Struct) error

// Logger captures shell events.
type Logger struct {
	Record LogRecorder

	// Now is the time source for entries, time.Now if unset.
	Now func() time.Time

	mu sync.Mutex
}

// NewJSONLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	return &Logger{
		Record: func(le *structpb.Struct) error {
			entry, err := protojson.MarshalOptions{}.Marshal(le)
			if err != nil {
				return err
			}
			// protojson output isn't stable, compact it so each entry is
			// exactly one line.
			var compact json.RawMessage = entry
			line, err := json.Marshal(compact)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(w, string(line))
			return err
		},
	}
}

func (l *Logger) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Logger) recordEvent(sessionID string, event Event) error {
	le, err := encodeEvent(event)
	if err != nil {
		return err
	}
	le.Fields["timestamp_micros"] = structpb.NewNumberValue(float64(l.now().UnixNano() / int64(time.Microsecond)))
	le.Fields["session_id"] = structpb.NewStringValue(sessionID)

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.Record(le)
}

// NewSession creates a logger with attached session ID.
func (l *Logger) NewSession() *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: fmt.Sprintf("%d", rand.Uint64())}
}

// SessionLogger logs events with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

var _ EventRecorder = (*SessionLogger)(nil)

// Record implements EventRecorder.
func (l *SessionLogger) Record(event Event) error {
	return l.recordEvent(l.sessionID, event)
}

// SessionID returns the identifier attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

func encodeEvent(event Event) (*structpb.Struct, error) {
	command := make([]interface{}, len(event.Command))
	for i, arg := range event.Command {
		command[i] = arg
	}

	fields := map[string]interface{}{
		"type":    event.Type,
		"command": command,
		"stage":   event.Stage,
		"status":  event.Status,
	}
	if event.Error != "" {
		fields["error"] = event.Error
	}

	return structpb.NewStruct(fields)
}

// Entry is a decoded event log line.
type Entry struct {
	Event

	SessionID       string
	TimestampMicros int64
}

func decodeEntry(le *structpb.Struct) *Entry {
	raw := le.AsMap()

	entry := &Entry{}
	entry.Type, _ = raw["type"].(string)
	entry.Error, _ = raw["error"].(string)
	entry.SessionID, _ = raw["session_id"].(string)
	if v, ok := raw["stage"].(float64); ok {
		entry.Stage = int(v)
	}
	if v, ok := raw["status"].(float64); ok {
		entry.Status = int(v)
	}
	if v, ok := raw["timestamp_micros"].(float64); ok {
		entry.TimestampMicros = int64(v)
	}
	if args, ok := raw["command"].([]interface{}); ok {
		for _, arg := range args {
			s, _ := arg.(string)
			entry.Command = append(entry.Command, s)
		}
	}

	return entry
}

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *Entry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var logEntry structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &logEntry); err != nil {
			return err
		}

		handler(decodeEntry(&logEntry))
	}
	return nil
}
