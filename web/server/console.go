package server

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"
)

// ConsoleMessage is one renderer log line forwarded to the browser
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`              // "info", "warning", "error"
	Progress  int       `json:"progress,omitempty"` // Percent done, set on progress lines only
}

// WebLogger implements core.Logger for one render. Lines go to the server log
// and, without blocking, to the render's console channel.
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	dropped     atomic.Int64
}

// NewWebLogger creates a logger for a render; consoleChan may be nil
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
	}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", wl.renderID, strings.TrimRight(message, "\n"))

	if wl.consoleChan == nil {
		return
	}
	msg := ConsoleMessage{
		RenderID:  wl.renderID,
		Message:   message,
		Timestamp: time.Now(),
		Level:     messageLevel(message),
		Progress:  messageProgress(message),
	}
	select {
	case wl.consoleChan <- msg:
	default:
		wl.dropped.Add(1)
	}
}

// Dropped returns how many lines were not delivered because the channel was full
func (wl *WebLogger) Dropped() int64 {
	return wl.dropped.Load()
}

func messageLevel(message string) string {
	switch {
	case strings.HasPrefix(message, "Error"):
		return "error"
	case strings.HasPrefix(message, "Warning"):
		return "warning"
	default:
		return "info"
	}
}

// messageProgress extracts the percentage of a renderer progress line
func messageProgress(message string) int {
	var percent int
	if _, err := fmt.Sscanf(message, "Rendered %d%%", &percent); err != nil {
		return 0
	}
	return percent
}
