// Package interfaces 定义了系统中的核心接口
package interfaces

// Metric 表示一个指标源
type Metric interface {
	// Name 指标类型名，用于日志和错误信息
	Name() string

	// Collect 采集一次，返回报告行（不含换行符）
	Collect() ([]string, error)
}

// Output 表示一个报告输出
type Output interface {
	// Name 输出名
	Name() string

	// Write 写入完整报告并立即刷新
	Write(report string) error

	// Close 释放输出资源
	Close() error
}
