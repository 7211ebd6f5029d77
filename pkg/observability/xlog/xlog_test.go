package xlog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level) (LoggerWithLevel, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return New(h, level), &buf
}

func TestLoggerLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LevelWarn)
	ctx := context.Background()

	l.Info(ctx, "hidden")
	assert.Empty(t, buf.String())

	l.Warn(ctx, "shown", Lock("inode"), Actor(3))
	out := buf.String()
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "lock=inode")
	assert.Contains(t, out, "actor=3")
}

func TestLoggerSetLevel(t *testing.T) {
	l, buf := newBufferLogger(LevelError)
	ctx := context.Background()

	assert.False(t, l.Enabled(ctx, LevelDebug))
	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	assert.True(t, l.Enabled(ctx, LevelDebug))

	l.Debug(ctx, "now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestLoggerWithSharesLevel(t *testing.T) {
	l, buf := newBufferLogger(LevelError)
	child := l.With(Component("xmutex"))

	child.Info(context.Background(), "dropped")
	assert.Empty(t, buf.String())

	l.SetLevel(LevelInfo)
	child.Info(context.Background(), "kept")
	assert.Contains(t, buf.String(), "component=xmutex")
}

func TestLoggerStack(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)
	l.Stack(context.Background(), "fatal", Err(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "stack=")
	assert.Contains(t, out, "TestLoggerStack")
}

func TestLoggerNilContext(t *testing.T) {
	l, buf := newBufferLogger(LevelInfo)
	assert.NotPanics(t, func() {
		l.Info(nil, "nil ctx") //nolint:staticcheck // 测试 nil ctx 容错
	})
	assert.Contains(t, buf.String(), "nil ctx")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{" INFO ", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelText(t *testing.T) {
	var l Level
	require.NoError(t, l.UnmarshalText([]byte("warn")))
	assert.Equal(t, LevelWarn, l)

	b, err := l.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "WARN", string(b))

	assert.Error(t, l.UnmarshalText([]byte("nope")))
}

func TestDefault(t *testing.T) {
	ResetDefault()
	t.Cleanup(ResetDefault)

	d := Default()
	require.NotNil(t, d)
	assert.Same(t, d, Default())
	assert.Equal(t, LevelWarn, d.GetLevel())

	SetDefaultLevel(LevelDebug)
	assert.Equal(t, LevelDebug, Default().GetLevel())

	custom := Nop()
	SetDefault(custom)
	assert.Same(t, custom, Default())

	SetDefault(nil)
	assert.Same(t, custom, Default())

	assert.Same(t, custom, OrDefault(nil))
	assert.Same(t, d, OrDefault(d))
}

func TestAttrs(t *testing.T) {
	assert.Equal(t, slog.Attr{}, Err(nil))
	assert.Equal(t, "5ms", Duration(5*time.Millisecond).Value.String())
	assert.Equal(t, int64(3), Priority(3).Value.Int64())
	assert.Equal(t, uint64(9), Owner(9).Value.Uint64())
	assert.Equal(t, "spin", Kind("spin").Value.String())
	assert.Equal(t, "wait", Operation("wait").Value.String())
	assert.Equal(t, int64(2), Count(2).Value.Int64())
}
