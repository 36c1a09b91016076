package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mbruna/tempo/internal/gesture"
)

// DebugLogger logs keystrokes, gestures and store traffic to a file.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "tempo-debug.log"

// EnableDebugLog opens the debug log in the current directory.
func EnableDebugLog() error {
	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugLog = &DebugLogger{
		file:    f,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": DebugLogPath,
		"time":     time.Now().Format(time.RFC3339),
	})

	return nil
}

// CloseDebugLog closes the debug log file.
func CloseDebugLog() {
	if debugLog != nil && debugLog.file != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		_ = debugLog.file.Close()
	}
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.file == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.file, "%s\n", b)
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key":  msg.String(),
		"type": fmt.Sprintf("%T", msg.Type),
	})
}

// LogGesture logs a finished pointer gesture.
func LogGesture(result gesture.Result) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("GESTURE_END", map[string]any{
		"kind":    int(result.Kind),
		"task_id": result.TaskID,
		"start":   result.Start,
		"end":     result.End,
		"delta":   result.DeltaPct,
	})
}

// LogStoreChange logs a visible-state change notification.
func LogStoreChange(tasks int) {
	if debugLog == nil || !debugLog.enabled {
		return
	}
	debugLog.log("STORE_CHANGE", map[string]any{
		"tasks": tasks,
	})
}
