package xsv

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// metricNameWaitTotal 等待结束次数计数器
	metricNameWaitTotal = "xsv.wait.total"
	// metricNameWaitDuration 等待耗时直方图
	metricNameWaitDuration = "xsv.wait.duration"
	// metricNameWakeupTotal 唤醒等待者数量计数器
	metricNameWakeupTotal = "xsv.wakeup.total"
)

const (
	opSignal    = "signal"
	opBroadcast = "broadcast"
)

// Metrics 同步变量指标收集器。nil 接收者的所有方法都是空操作。
type Metrics struct {
	meter        metric.Meter
	waitTotal    metric.Int64Counter
	waitDuration metric.Float64Histogram
	wakeupTotal  metric.Int64Counter
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
	if m.waitTotal, err = m.meter.Int64Counter(metricNameWaitTotal,
		metric.WithDescription("同步变量等待次数"), metric.WithUnit("{wait}")); err != nil {
		return nil, err
	}
	if m.waitDuration, err = m.meter.Float64Histogram(metricNameWaitDuration,
		metric.WithDescription("同步变量等待耗时"), metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...)); err != nil {
		return nil, err
	}
	if m.wakeupTotal, err = m.meter.Int64Counter(metricNameWakeupTotal,
		metric.WithDescription("被唤醒的等待者数量"), metric.WithUnit("{actor}")); err != nil {
		return nil, err
	}
	return m, nil
}

// durationBuckets 耗时直方图的桶边界
var durationBuckets = []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0, 60.0}

func (m *Metrics) recordWait(ctx context.Context, outcome Outcome, d time.Duration) {
	if m == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	attrs := metric.WithAttributes(attribute.String(attrOutcome, outcome.String()))
	m.waitTotal.Add(ctx, 1, attrs)
	m.waitDuration.Record(ctx, d.Seconds(), attrs)
}

func (m *Metrics) recordWakeup(ctx context.Context, op string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.wakeupTotal.Add(context.WithoutCancel(ctx), int64(n),
		metric.WithAttributes(attribute.String(attrOp, op)))
}
