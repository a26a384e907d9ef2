package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/han-fei/hostmon/internal/utils"
)

// Config 采集代理配置
type Config struct {
	Settings *SettingsConfig    `yaml:"settings"`
	Metrics  []MetricDescriptor `yaml:"metrics"`
	Outputs  []OutputDescriptor `yaml:"outputs"`
	Agent    AgentConfig        `yaml:"agent"`
	Log      LogConfig          `yaml:"log"`
}

// SettingsConfig 采集设置
type SettingsConfig struct {
	Period *Period `yaml:"period"` // 采集周期，单位秒
}

// MetricDescriptor 指标描述
type MetricDescriptor struct {
	Type string   `yaml:"type"`
	IDs  []int    `yaml:"ids"`  // cpu: 逻辑CPU编号
	Spec []string `yaml:"spec"` // memory: used / free
}

// OutputDescriptor 输出描述
type OutputDescriptor struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"` // log: 日志文件路径
}

// AgentConfig 代理基本配置
type AgentConfig struct {
	HostID   string `yaml:"host_id"`   // 主机ID，为空时自动生成
	ProcRoot string `yaml:"proc_root"` // proc文件系统挂载点
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `yaml:"level"`  // 日志级别
	Format string `yaml:"format"` // console 或 json
	Path   string `yaml:"path"`   // 日志路径，为空时输出到stderr
}

// Period 采集周期（秒），兼容字符串和整数写法
type Period int

// UnmarshalYAML 解析 "1" 或 1
func (p *Period) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: period must be a scalar", node.Line)
	}
	n, err := strconv.Atoi(strings.TrimSpace(node.Value))
	if err != nil {
		return fmt.Errorf("line %d: invalid period %q", node.Line, node.Value)
	}
	*p = Period(n)
	return nil
}

// Duration 转换为time.Duration
func (p Period) Duration() time.Duration {
	return time.Duration(p) * time.Second
}

// PeriodDuration 返回采集周期
func (c *Config) PeriodDuration() time.Duration {
	if c.Settings == nil || c.Settings.Period == nil {
		return 0
	}
	return c.Settings.Period.Duration()
}

// LoadConfig 加载配置文件
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, utils.NewConfigurationError(path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, utils.NewConfigurationError(path, err)
	}
	return cfg, nil
}

// Parse 解析并校验配置内容，JSON同样适用
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// 设置默认值
	if cfg.Agent.ProcRoot == "" {
		cfg.Agent.ProcRoot = "/proc"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	return cfg, nil
}

// Validate 检查必填项
func (c *Config) Validate() error {
	if c.Settings == nil {
		return errors.New("missing settings")
	}
	if c.Settings.Period == nil {
		return errors.New("missing settings.period")
	}
	if *c.Settings.Period <= 0 {
		return fmt.Errorf("period must be positive, got %d", *c.Settings.Period)
	}
	if c.Metrics == nil {
		return errors.New("missing metrics")
	}
	if c.Outputs == nil {
		return errors.New("missing outputs")
	}
	return nil
}
