package registry

import (
	"context"
	"errors"
	"os"
	"runtime"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"

	"github.com/han-fei/hostmon/agent/internal/models"
)

// LocalHost 获取本地主机信息。
// 采集失败的字段回退到运行时信息，错误一并返回供调用方记录。
func LocalHost(ctx context.Context, hostID string) (models.HostInfo, error) {
	if hostID == "" {
		hostID = uuid.NewString()
	}

	info := models.HostInfo{
		ID:       hostID,
		OS:       runtime.GOOS,
		CPUCores: runtime.NumCPU(),
	}

	var errs []error
	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	if hi != nil {
		info.Hostname = hi.Hostname
		if hi.OS != "" {
			info.OS = hi.OS
		}
		info.Platform = hi.Platform
		info.KernelVersion = hi.KernelVersion
	}
	if info.Hostname == "" {
		info.Hostname, _ = os.Hostname()
	}

	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		errs = append(errs, err)
	} else if cores > 0 {
		info.CPUCores = cores
	}

	return info, errors.Join(errs...)
}

// UnknownCPUIDs 返回超出逻辑CPU数量的编号，保持原顺序
func UnknownCPUIDs(info models.HostInfo, ids []int) []int {
	var unknown []int
	for _, id := range ids {
		if id >= info.CPUCores {
			unknown = append(unknown, id)
		}
	}
	return unknown
}
