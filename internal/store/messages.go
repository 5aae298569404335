// Package store persists what visitors leave behind: contact messages in an
// append-only JSON file and page visits in sqlite.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var (
	// ErrEmptyMessage is returned for blank or whitespace-only messages.
	ErrEmptyMessage = errors.New("message is required")
	// ErrMessageTooLong is returned when a message exceeds the configured limit.
	ErrMessageTooLong = errors.New("message is too long")
)

// Message is one record of messages.json.
type Message struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
}

// MessageLog appends messages to a JSON array on disk. Appends are
// serialized and each write replaces the file atomically.
type MessageLog struct {
	path   string
	maxLen int
	now    func() time.Time

	mu sync.Mutex
}

// NewMessageLog returns a log backed by path. maxLen <= 0 disables the limit.
func NewMessageLog(path string, maxLen int) *MessageLog {
	return &MessageLog{path: path, maxLen: maxLen, now: time.Now}
}

// Path is the backing file.
func (l *MessageLog) Path() string { return l.path }

// Append validates text and appends one record.
func (l *MessageLog) Append(ctx context.Context, text, ip string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	if l.maxLen > 0 && len([]rune(text)) > l.maxLen {
		return Message{}, fmt.Errorf("%w: limit is %d characters", ErrMessageTooLong, l.maxLen)
	}
	if err := ctx.Err(); err != nil {
		return Message{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	msgs, err := l.read()
	if err != nil {
		return Message{}, err
	}
	msg := Message{Message: text, Timestamp: l.now().UTC(), IP: ip}
	msgs = append(msgs, msg)
	if err := l.write(msgs); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// All returns every stored message, oldest first.
func (l *MessageLog) All() ([]Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.read()
}

func (l *MessageLog) read() ([]Message, error) {
	raw, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read messages: %w", err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, nil
	}
	var msgs []Message
	if err := json.Unmarshal(raw, &msgs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return msgs, nil
}

func (l *MessageLog) write(msgs []Message) error {
	raw, err := json.MarshalIndent(msgs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create messages dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".messages-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write messages: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close messages: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fmt.Errorf("replace messages: %w", err)
	}
	return nil
}
