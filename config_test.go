package vuefire

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/faresg/vuefire/types"
)

// recordingLogger captures warnings for assertions.
type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

var _ types.Logger = (*recordingLogger)(nil)

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Fatal(string, ...any) {}

func (l *recordingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func (l *recordingLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.warns...)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.False(t, cfg.Wait)
	require.Nil(t, cfg.Reset)
	require.Nil(t, cfg.Target)
	require.NoError(t, cfg.Validate())
}

func TestConfigYAML(t *testing.T) {
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte("wait: true\n"), &cfg))
	require.True(t, cfg.Wait)
}

func TestValidateWithWarnings(t *testing.T) {
	t.Run("warns on wait with target prefill", func(t *testing.T) {
		logger := &recordingLogger{}
		cfg := Config{
			Wait:   true,
			Target: []types.Document{types.NewDocument("a", nil)},
		}

		cfg.ValidateWithWarnings(logger)
		require.Len(t, logger.warnings(), 1)
	})

	t.Run("silent otherwise", func(t *testing.T) {
		logger := &recordingLogger{}
		cfg := Config{Wait: true}

		cfg.ValidateWithWarnings(logger)
		require.Empty(t, logger.warnings())
	})
}

func TestResetClear(t *testing.T) {
	docs := ResetClear()
	require.NotNil(t, docs)
	require.Empty(t, docs)
}
