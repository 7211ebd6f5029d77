package xsv

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	// tracerName 追踪器与 Meter 的 scope 名称
	tracerName = "xsv"
	// instrumentationVersion 埋点版本
	instrumentationVersion = "1.0.0"
)

// Span 操作名称
const (
	spanNameWait = "xsv.Wait"
)

// Span 与指标属性名称
const (
	attrName          = "xsv.name"
	attrActor         = "xsv.actor"
	attrOrder         = "xsv.order"
	attrMonitor       = "xsv.monitor"
	attrOutcome       = "xsv.outcome"
	attrOp            = "xsv.op"
	attrTimeout       = "xsv.timeout_seconds"
	attrInterruptible = "xsv.interruptible"
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
