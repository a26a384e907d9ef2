package collector

import (
	"bufio"
	"bytes"
	"io/fs"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/han-fei/hostmon/agent/internal/models"
	"github.com/han-fei/hostmon/internal/utils"
)

const (
	statFile    = "stat"
	memInfoFile = "meminfo"
)

// Source 原始计数器来源，每次采集都重新读取
type Source struct {
	fsys fs.FS
	root string
}

// NewProcSource 基于proc挂载点创建数据源
func NewProcSource(root string) *Source {
	return &Source{fsys: os.DirFS(root), root: root}
}

// NewSource 基于任意文件系统创建数据源，root仅用于错误信息
func NewSource(fsys fs.FS, root string) *Source {
	return &Source{fsys: fsys, root: root}
}

// ReadFile 读取计数器文件，失败时返回SourceUnavailable
func (s *Source) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return nil, utils.NewSourceError(s.Path(name), err)
	}
	return data, nil
}

// Path 返回文件的完整路径
func (s *Source) Path(name string) string {
	return path.Join(s.root, name)
}

// parseCPUStat 解析/proc/stat中的逐核心记录，汇总行 "cpu " 被忽略。
// 同一编号重复出现时以第一行为准；缺失或非法字段按0处理。
func parseCPUStat(data []byte) map[int]models.CPUTimes {
	stats := make(map[int]models.CPUTimes)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 || !strings.HasPrefix(line, "cpu") || !isDigit(line[3]) {
			continue
		}

		fields := strings.Fields(line)
		id, err := strconv.Atoi(fields[0][3:])
		if err != nil {
			continue
		}
		if _, seen := stats[id]; seen {
			continue
		}

		var values [8]uint64
		for i := range values {
			if i+1 < len(fields) {
				if v, err := strconv.ParseUint(fields[i+1], 10, 64); err == nil {
					values[i] = v
				}
			}
		}

		stats[id] = models.CPUTimes{
			User:    values[0],
			Nice:    values[1],
			System:  values[2],
			Idle:    values[3],
			IOWait:  values[4],
			IRQ:     values[5],
			SoftIRQ: values[6],
			Steal:   values[7],
		}
	}

	return stats
}

// parseMemInfo 解析/proc/meminfo，格式为 "KEY: VALUE [unit]"
func parseMemInfo(data []byte) models.MemInfo {
	var info models.MemInfo

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, rest, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}

		var value int64
		if fields := strings.Fields(rest); len(fields) > 0 {
			if v, err := strconv.ParseInt(fields[0], 10, 64); err == nil {
				value = v
			}
		}

		switch strings.TrimSpace(key) {
		case "MemTotal":
			info.Total = value
		case "MemFree":
			info.Free = value
		case "Buffers":
			info.Buffers = value
		case "Cached":
			info.Cached = value
		}
	}

	return info
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
