package models

import (
	"strings"
	"time"
)

// TimestampLayout 报告首行的时间格式（与ctime一致）
const TimestampLayout = time.ANSIC

// Report 一次采集周期的报告
type Report struct {
	Timestamp time.Time
	Lines     []string
}

// String 渲染报告：时间行 + 每个指标行，均以换行结尾
func (r Report) String() string {
	var b strings.Builder
	b.WriteString(r.Timestamp.Format(TimestampLayout))
	b.WriteByte('\n')
	for _, line := range r.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// CPUTimes 单个逻辑CPU的累计时间片
type CPUTimes struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	IOWait  uint64
	IRQ     uint64
	SoftIRQ uint64
	Steal   uint64
}

// Total 八个字段之和
func (t CPUTimes) Total() uint64 {
	return t.User + t.Nice + t.System + t.Idle + t.IOWait + t.IRQ + t.SoftIRQ + t.Steal
}

// Active 非空闲时间（不含idle与iowait）
func (t CPUTimes) Active() uint64 {
	return t.User + t.Nice + t.System + t.IRQ + t.SoftIRQ + t.Steal
}

// MemInfo 内存计数（单位kB）
type MemInfo struct {
	Total   int64
	Free    int64
	Buffers int64
	Cached  int64
}

// Used 已用内存，不做下限截断
func (m MemInfo) Used() int64 {
	return m.Total - m.Free - m.Buffers - m.Cached
}

// HostInfo 主机信息
type HostInfo struct {
	ID            string `json:"id"`            // 主机唯一标识
	Hostname      string `json:"hostname"`      // 主机名
	OS            string `json:"os"`            // 操作系统
	Platform      string `json:"platform"`      // 发行版
	KernelVersion string `json:"kernelVersion"` // 内核版本
	CPUCores      int    `json:"cpuCores"`      // 逻辑CPU数
}
