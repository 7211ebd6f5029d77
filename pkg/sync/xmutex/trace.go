package xmutex

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	// tracerName 追踪器与 Meter 的 scope 名称
	tracerName = "xmutex"
	// instrumentationVersion 埋点版本
	instrumentationVersion = "1.0.0"
)

// Span 操作名称
const (
	spanNameContend = "xmutex.Contend"
)

// Span 与指标属性名称
const (
	attrLock        = "xmutex.lock"
	attrActor       = "xmutex.actor"
	attrKind        = "xmutex.kind"
	attrPath        = "xmutex.path"
	attrWaitSeconds = "xmutex.wait_seconds"
)

// getTracer 获取 tracer 实例
// 如果配置了 TracerProvider 则使用它，否则使用全局默认
func getTracer(tp trace.TracerProvider) trace.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName, trace.WithInstrumentationVersion(instrumentationVersion))
}

// startSpan 创建新的 span。tracer 为 nil 时使用全局 tracer。
func startSpan(ctx context.Context, tracer trace.Tracer, name string) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name)
}
