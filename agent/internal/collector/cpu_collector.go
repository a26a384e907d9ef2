package collector

import (
	"fmt"

	"github.com/han-fei/hostmon/agent/internal/models"
)

// cpuSlot 单个被跟踪CPU的上一次采样，prevTotal为0表示尚无采样
type cpuSlot struct {
	id         int
	prevTotal  uint64
	prevActive uint64
}

// CPUCollector CPU使用率采集器。
// 每个注册位置独立跟踪，重复的编号各自维护状态。
type CPUCollector struct {
	source *Source
	slots  []cpuSlot
}

// NewCPUCollector 创建CPU采集器
func NewCPUCollector(source *Source, ids []int) (*CPUCollector, error) {
	slots := make([]cpuSlot, len(ids))
	for i, id := range ids {
		if id < 0 {
			return nil, fmt.Errorf("invalid cpu id %d", id)
		}
		slots[i] = cpuSlot{id: id}
	}
	return &CPUCollector{source: source, slots: slots}, nil
}

// Name 指标类型名
func (c *CPUCollector) Name() string {
	return "cpu"
}

// IDs 返回按注册顺序的CPU编号
func (c *CPUCollector) IDs() []int {
	ids := make([]int, len(c.slots))
	for i, slot := range c.slots {
		ids[i] = slot.id
	}
	return ids
}

// Collect 采集CPU指标
func (c *CPUCollector) Collect() ([]string, error) {
	data, err := c.source.ReadFile(statFile)
	if err != nil {
		return nil, err
	}

	stats := parseCPUStat(data)
	lines := make([]string, 0, len(c.slots))
	for i := range c.slots {
		slot := &c.slots[i]
		times, ok := stats[slot.id]
		if !ok {
			lines = append(lines, fmt.Sprintf("Error: Cpu%d not found!", slot.id))
			continue
		}
		lines = append(lines, slot.sample(times))
	}

	return lines, nil
}

// sample 计算使用率并更新状态，无论走哪个分支都记录本次计数
func (s *cpuSlot) sample(times models.CPUTimes) string {
	total := times.Total()
	active := times.Active()

	var line string
	switch {
	case s.prevTotal == 0 && total == 0:
		line = insufficientLine(s.id)
	case s.prevTotal == 0:
		// 首次采样没有基线，用累计值估算
		line = usageLine(s.id, 100.0*float64(active)/float64(total))
	case total == s.prevTotal:
		line = insufficientLine(s.id)
	default:
		activeDiff := float64(int64(active - s.prevActive))
		totalDiff := float64(int64(total - s.prevTotal))
		line = usageLine(s.id, 100.0*activeDiff/totalDiff)
	}

	s.prevTotal = total
	s.prevActive = active
	return line
}

func usageLine(id int, usage float64) string {
	return fmt.Sprintf("Cpu%d: %.2f %%", id, usage)
}

func insufficientLine(id int) string {
	return fmt.Sprintf("Measurement interval for Cpu%d is insufficient", id)
}
