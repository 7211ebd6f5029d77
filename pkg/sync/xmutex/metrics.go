package xmutex

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// metricNameAcquireTotal 获取次数计数器
	metricNameAcquireTotal = "xmutex.acquire.total"
	// metricNameContentionDuration 竞争获取耗时直方图
	metricNameContentionDuration = "xmutex.contention.duration"
	// metricNamePropagationTotal 优先级提升次数计数器
	metricNamePropagationTotal = "xmutex.propagation.total"
	// metricNameHandoffTotal 所有权交接次数计数器
	metricNameHandoffTotal = "xmutex.handoff.total"
)

// 获取路径
const (
	pathFast      = "fast"
	pathRecursive = "recursive"
	pathContended = "contended"
	pathSpin      = "spin"
)

// Metrics 互斥锁指标收集器。nil 接收者的所有方法都是空操作。
type Metrics struct {
	meter              metric.Meter
	acquireTotal       metric.Int64Counter
	contentionDuration metric.Float64Histogram
	propagationTotal   metric.Int64Counter
	handoffTotal       metric.Int64Counter
}

// NewMetrics 创建指标收集器。
// 如果 meterProvider 为 nil，返回 nil（不收集指标）
func NewMetrics(meterProvider metric.MeterProvider) (*Metrics, error) {
	if meterProvider == nil {
		return nil, nil
	}
	m := &Metrics{
		meter: meterProvider.Meter(tracerName,
			metric.WithInstrumentationVersion(instrumentationVersion)),
	}

	var err error
	if m.acquireTotal, err = m.meter.Int64Counter(metricNameAcquireTotal,
		metric.WithDescription("互斥锁获取次数"), metric.WithUnit("{acquire}")); err != nil {
		return nil, err
	}
	if m.contentionDuration, err = m.meter.Float64Histogram(metricNameContentionDuration,
		metric.WithDescription("互斥锁竞争等待耗时"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...)); err != nil {
		return nil, err
	}
	if m.propagationTotal, err = m.meter.Int64Counter(metricNamePropagationTotal,
		metric.WithDescription("优先级提升次数"), metric.WithUnit("{boost}")); err != nil {
		return nil, err
	}
	if m.handoffTotal, err = m.meter.Int64Counter(metricNameHandoffTotal,
		metric.WithDescription("所有权交接次数"), metric.WithUnit("{handoff}")); err != nil {
		return nil, err
	}
	return m, nil
}

// durationBuckets 耗时直方图的桶边界
var durationBuckets = []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0, 10.0}

func (m *Metrics) recordAcquire(ctx context.Context, kind Kind, path string) {
	if m == nil {
		return
	}
	m.acquireTotal.Add(context.WithoutCancel(ctx), 1, metric.WithAttributes(
		attribute.String(attrKind, kind.String()),
		attribute.String(attrPath, path),
	))
}

func (m *Metrics) recordContention(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.contentionDuration.Record(context.WithoutCancel(ctx), d.Seconds())
}

func (m *Metrics) recordPropagation(ctx context.Context) {
	if m == nil {
		return
	}
	m.propagationTotal.Add(context.WithoutCancel(ctx), 1)
}

func (m *Metrics) recordHandoff(ctx context.Context) {
	if m == nil {
		return
	}
	m.handoffTotal.Add(context.WithoutCancel(ctx), 1)
}
