package agent

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/han-fei/hostmon/agent/internal/collector"
	"github.com/han-fei/hostmon/agent/internal/config"
	"github.com/han-fei/hostmon/agent/internal/models"
	"github.com/han-fei/hostmon/agent/internal/registry"
	"github.com/han-fei/hostmon/agent/internal/service"
	"github.com/han-fei/hostmon/pkg/interfaces"
)

// Agent 数据采集代理：按配置创建指标和输出并驱动采集循环
type Agent struct {
	Config *config.Config
	Host   models.HostInfo

	logger    *zap.Logger
	collector *collector.MetricsCollector
}

type options struct {
	logger    *zap.Logger
	source    *collector.Source
	stdout    io.Writer
	clock     func() time.Time
	maxCycles int
}

// Option Agent选项
type Option func(*options)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithSource 替换计数器来源，默认使用 agent.proc_root
func WithSource(source *collector.Source) Option {
	return func(o *options) { o.source = source }
}

// WithStdout 替换控制台输出目标
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithClock 替换报告时间来源
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithMaxCycles 执行n个周期后退出
func WithMaxCycles(n int) Option {
	return func(o *options) { o.maxCycles = n }
}

// NewAgent 按配置顺序创建所有指标和输出。
// 任一创建失败时释放已创建的实例并返回ConfigurationError。
func NewAgent(cfg *config.Config, opts ...Option) (*Agent, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.source == nil {
		o.source = collector.NewProcSource(cfg.Agent.ProcRoot)
	}

	hostInfo, err := registry.LocalHost(context.Background(), cfg.Agent.HostID)
	if err != nil {
		o.logger.Warn("获取主机信息不完整", zap.Error(err))
	}
	logger := o.logger.With(zap.String("host_id", hostInfo.ID))

	var (
		metrics []interfaces.Metric
		outputs []interfaces.Output
	)

	metricFactory := collector.NewMetricFactory(o.source)
	for _, desc := range cfg.Metrics {
		m, err := metricFactory.Create(desc)
		if err != nil {
			_ = collector.Release(metrics, outputs)
			return nil, err
		}
		if cpuMetric, ok := m.(*collector.CPUCollector); ok {
			if unknown := registry.UnknownCPUIDs(hostInfo, cpuMetric.IDs()); len(unknown) > 0 {
				logger.Warn("跟踪的CPU编号超出逻辑CPU数量", zap.Ints("ids", unknown), zap.Int("cpu_cores", hostInfo.CPUCores))
			}
		}
		logger.Info("已创建指标", zap.String("type", m.Name()))
		metrics = append(metrics, m)
	}

	outputFactory := service.NewOutputFactory(o.stdout)
	for _, desc := range cfg.Outputs {
		out, err := outputFactory.Create(desc)
		if err != nil {
			_ = collector.Release(metrics, outputs)
			return nil, err
		}
		logger.Info("已创建输出", zap.String("type", out.Name()))
		outputs = append(outputs, out)
	}

	collectorOpts := []collector.Option{collector.WithMaxCycles(o.maxCycles)}
	if o.clock != nil {
		collectorOpts = append(collectorOpts, collector.WithClock(o.clock))
	}

	return &Agent{
		Config:    cfg,
		Host:      hostInfo,
		logger:    logger,
		collector: collector.NewMetricsCollector(cfg.PeriodDuration(), metrics, outputs, logger, collectorOpts...),
	}, nil
}

// Run 运行采集循环直到出错或ctx取消
func (a *Agent) Run(ctx context.Context) error {
	return a.collector.Run(ctx)
}

// Cycles 已完成的周期数
func (a *Agent) Cycles() int {
	return a.collector.Cycles()
}

// Close 释放所有指标和输出
func (a *Agent) Close() error {
	return a.collector.Close()
}
