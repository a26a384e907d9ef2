package collector

import (
	"fmt"
)

// MemoryCollector 内存指标采集器
type MemoryCollector struct {
	source   *Source
	showUsed bool
	showFree bool
}

// NewMemoryCollector 创建内存采集器，未知字段被忽略
func NewMemoryCollector(source *Source, spec []string) *MemoryCollector {
	c := &MemoryCollector{source: source}
	for _, field := range spec {
		switch field {
		case "used":
			c.showUsed = true
		case "free":
			c.showFree = true
		}
	}
	return c
}

// Name 指标类型名
func (c *MemoryCollector) Name() string {
	return "memory"
}

// Collect 采集内存指标，输出顺序固定为 used、free
func (c *MemoryCollector) Collect() ([]string, error) {
	data, err := c.source.ReadFile(memInfoFile)
	if err != nil {
		return nil, err
	}

	info := parseMemInfo(data)
	lines := make([]string, 0, 2)
	if c.showUsed {
		lines = append(lines, fmt.Sprintf("Used memory: %d kB", info.Used()))
	}
	if c.showFree {
		lines = append(lines, fmt.Sprintf("Free memory: %d kB", info.Free))
	}
	return lines, nil
}
