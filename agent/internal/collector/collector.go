package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/han-fei/hostmon/agent/internal/models"
	"github.com/han-fei/hostmon/pkg/interfaces"
)

// State 采集循环状态
type State int

const (
	StateRunning State = iota
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Option 采集循环选项
type Option func(*MetricsCollector)

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(mc *MetricsCollector) { mc.now = now }
}

// WithMaxCycles 执行n个周期后正常退出，0表示不限
func WithMaxCycles(n int) Option {
	return func(mc *MetricsCollector) { mc.maxCycles = n }
}

// MetricsCollector 指标采集循环。所有步骤在同一goroutine中顺序执行。
type MetricsCollector struct {
	period    time.Duration
	metrics   []interfaces.Metric
	outputs   []interfaces.Output
	logger    *zap.Logger
	now       func() time.Time
	maxCycles int
	cycles    int
	state     State
}

// NewMetricsCollector 创建采集循环
func NewMetricsCollector(period time.Duration, metrics []interfaces.Metric, outputs []interfaces.Output, logger *zap.Logger, opts ...Option) *MetricsCollector {
	if logger == nil {
		logger = zap.NewNop()
	}
	mc := &MetricsCollector{
		period:  period,
		metrics: metrics,
		outputs: outputs,
		logger:  logger,
		now:     time.Now,
		state:   StateRunning,
	}
	for _, opt := range opts {
		opt(mc)
	}
	return mc
}

// State 当前状态
func (mc *MetricsCollector) State() State {
	return mc.state
}

// Cycles 已完成的周期数
func (mc *MetricsCollector) Cycles() int {
	return mc.cycles
}

// Run 运行采集循环，直到出错、ctx取消或达到周期上限。
// 取消和达到上限时返回nil；任何采集或输出错误都会使循环终止并返回该错误。
func (mc *MetricsCollector) Run(ctx context.Context) error {
	if mc.state == StateTerminated {
		return errors.New("collector already terminated")
	}

	mc.logger.Info("开始采集循环", zap.Duration("period", mc.period),
		zap.Int("metrics", len(mc.metrics)), zap.Int("outputs", len(mc.outputs)))

	for {
		if ctx.Err() != nil {
			mc.logger.Info("采集循环收到停止信号，正在退出")
			return nil
		}

		if err := mc.RunCycle(); err != nil {
			mc.state = StateTerminated
			return err
		}

		if mc.maxCycles > 0 && mc.cycles >= mc.maxCycles {
			mc.logger.Info("已达到周期上限，正在退出", zap.Int("cycles", mc.cycles))
			return nil
		}

		timer := time.NewTimer(mc.period)
		select {
		case <-ctx.Done():
			timer.Stop()
			mc.logger.Info("采集循环收到停止信号，正在退出")
			return nil
		case <-timer.C:
		}
	}
}

// RunCycle 执行一次采集和一次输出
func (mc *MetricsCollector) RunCycle() error {
	report, err := mc.Collect()
	if err != nil {
		return err
	}
	if err := mc.Emit(report); err != nil {
		return err
	}
	mc.cycles++
	mc.logger.Debug("采集周期完成", zap.Int("cycle", mc.cycles), zap.Int("lines", len(report.Lines)))
	return nil
}

// Collect 按注册顺序调用所有指标并拼接报告
func (mc *MetricsCollector) Collect() (models.Report, error) {
	report := models.Report{Timestamp: mc.now()}
	for _, m := range mc.metrics {
		lines, err := m.Collect()
		if err != nil {
			return models.Report{}, fmt.Errorf("采集%s指标失败: %w", m.Name(), err)
		}
		report.Lines = append(report.Lines, lines...)
	}
	return report, nil
}

// Emit 把完整报告写到每个输出
func (mc *MetricsCollector) Emit(report models.Report) error {
	text := report.String()
	for _, out := range mc.outputs {
		if err := out.Write(text); err != nil {
			return fmt.Errorf("写入%s输出失败: %w", out.Name(), err)
		}
	}
	return nil
}

// Close 释放所有指标和输出
func (mc *MetricsCollector) Close() error {
	mc.state = StateTerminated
	return Release(mc.metrics, mc.outputs)
}

// Release 释放已创建的指标和输出，返回合并的错误
func Release(metrics []interfaces.Metric, outputs []interfaces.Output) error {
	var errs []error
	for _, m := range metrics {
		if closer, ok := m.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for _, out := range outputs {
		if err := out.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
