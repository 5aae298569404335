package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T, maxLen int) *MessageLog {
	t.Helper()
	log := NewMessageLog(filepath.Join(t.TempDir(), "messages.json"), maxLen)
	log.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return log
}

func TestAppendRejectsBlank(t *testing.T) {
	log := newTestLog(t, 0)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := log.Append(context.Background(), text, "127.0.0.1")
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	_, err := os.Stat(log.Path())
	assert.True(t, os.IsNotExist(err), "blank messages must not create the file")
}

func TestAppendRejectsTooLong(t *testing.T) {
	log := newTestLog(t, 5)

	_, err := log.Append(context.Background(), "123456", "127.0.0.1")
	assert.ErrorIs(t, err, ErrMessageTooLong)

	_, err = log.Append(context.Background(), "héllo", "127.0.0.1")
	assert.NoError(t, err)
}

func TestAppendAddsExactlyOneRecord(t *testing.T) {
	log := newTestLog(t, 0)
	ctx := context.Background()

	msg, err := log.Append(ctx, "  hello there  ", "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Message)

	_, err = log.Append(ctx, "second", "198.51.100.1")
	require.NoError(t, err)

	all, err := log.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, Message{Message: "hello there", Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), IP: "203.0.113.7"}, all[0])
	assert.Equal(t, "second", all[1].Message)

	raw, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `"timestamp": "2025-06-01T12:00:00Z"`))
}

func TestAppendConcurrent(t *testing.T) {
	log := newTestLog(t, 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := log.Append(context.Background(), "hi", "127.0.0.1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := log.All()
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestAllOnEmptyFile(t *testing.T) {
	log := newTestLog(t, 0)
	require.NoError(t, os.WriteFile(log.Path(), []byte("\n"), 0o644))

	all, err := log.All()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAllOnCorruptFile(t *testing.T) {
	log := newTestLog(t, 0)
	require.NoError(t, os.WriteFile(log.Path(), []byte("{not json"), 0o644))

	_, err := log.All()
	assert.Error(t, err)

	_, err = log.Append(context.Background(), "hi", "127.0.0.1")
	assert.Error(t, err)
}

func TestAppendCanceled(t *testing.T) {
	log := newTestLog(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := log.Append(ctx, "hi", "127.0.0.1")
	assert.ErrorIs(t, err, context.Canceled)
}
