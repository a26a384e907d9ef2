package collector

import (
	"errors"
	"fmt"

	"github.com/han-fei/hostmon/agent/internal/config"
	"github.com/han-fei/hostmon/internal/utils"
	"github.com/han-fei/hostmon/pkg/interfaces"
)

// MetricFactory 根据描述创建指标
type MetricFactory struct {
	source *Source
}

// NewMetricFactory 创建指标工厂
func NewMetricFactory(source *Source) *MetricFactory {
	return &MetricFactory{source: source}
}

// Create 按type分派到对应构造函数
func (f *MetricFactory) Create(desc config.MetricDescriptor) (interfaces.Metric, error) {
	switch desc.Type {
	case "cpu":
		if desc.IDs == nil {
			return nil, utils.NewConfigurationError(desc.Type, errors.New("missing ids"))
		}
		m, err := NewCPUCollector(f.source, desc.IDs)
		if err != nil {
			return nil, utils.NewConfigurationError(desc.Type, err)
		}
		return m, nil
	case "memory":
		if desc.Spec == nil {
			return nil, utils.NewConfigurationError(desc.Type, errors.New("missing spec"))
		}
		return NewMemoryCollector(f.source, desc.Spec), nil
	}
	return nil, utils.NewConfigurationError(desc.Type, fmt.Errorf("unknown metric type %q", desc.Type))
}
