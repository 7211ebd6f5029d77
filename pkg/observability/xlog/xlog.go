package xlog

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// Logger 日志接口
//
// 所有方法都需要 context.Context，签名只接受 slog.Attr。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// Stack 以 Error 级别记录日志，并附带当前 goroutine 的调用栈
	Stack(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带固定属性的派生 Logger，共享父级的级别
	With(attrs ...slog.Attr) Logger
}

// Leveler 级别控制接口
type Leveler interface {
	SetLevel(level Level)
	GetLevel() Level
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel 组合接口：New 返回此接口
type LoggerWithLevel interface {
	Logger
	Leveler
}

// 编译时接口检查
var _ LoggerWithLevel = (*xlogger)(nil)

// maxStackSize 堆栈缓冲区上限（64KB）
const maxStackSize = 64 * 1024

type xlogger struct {
	handler  slog.Handler
	levelVar *slog.LevelVar
}

// New 基于 handler 创建 Logger。
// handler 为 nil 时使用 stderr text handler。级别由 Logger 自己的 LevelVar 控制，
// handler 自身的级别应保持最低（或不设置）。
func New(handler slog.Handler, level Level) LoggerWithLevel {
	lv := new(slog.LevelVar)
	lv.Set(slog.Level(level))
	if handler == nil {
		handler = slog.NewTextHandler(stderr(), &slog.HandlerOptions{Level: lv})
	}
	return &xlogger{handler: handler, levelVar: lv}
}

// Nop 返回丢弃所有输出的 Logger
func Nop() LoggerWithLevel {
	return New(slog.DiscardHandler, LevelError)
}

func (l *xlogger) log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if level < l.levelVar.Level() || !l.handler.Enabled(ctx, level) {
		return
	}
	r := slog.NewRecord(time.Now(), level, msg, 0)
	r.AddAttrs(attrs...)
	// 设计决策: 日志失败不扩散到锁原语调用链
	_ = l.handler.Handle(ctx, r) //nolint:errcheck // best-effort
}

func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelDebug, msg, attrs)
}

func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelInfo, msg, attrs)
}

func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelWarn, msg, attrs)
}

func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelError, msg, attrs)
}

func (l *xlogger) Stack(ctx context.Context, msg string, attrs ...slog.Attr) {
	if level := slog.LevelError; level < l.levelVar.Level() {
		return
	}
	buf := make([]byte, 4096)
	for {
		n := runtime.Stack(buf, false)
		if n < len(buf) || len(buf) >= maxStackSize {
			buf = buf[:n]
			break
		}
		buf = make([]byte, len(buf)*2)
	}
	all := make([]slog.Attr, 0, len(attrs)+1)
	all = append(all, attrs...)
	all = append(all, slog.String(KeyStack, string(buf)))
	l.log(ctx, slog.LevelError, msg, all)
}

func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	return &xlogger{handler: l.handler.WithAttrs(attrs), levelVar: l.levelVar}
}

func (l *xlogger) SetLevel(level Level) {
	l.levelVar.Set(slog.Level(level))
}

func (l *xlogger) GetLevel() Level {
	return Level(l.levelVar.Level())
}

func (l *xlogger) Enabled(ctx context.Context, level Level) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	return slog.Level(level) >= l.levelVar.Level() && l.handler.Enabled(ctx, slog.Level(level))
}
