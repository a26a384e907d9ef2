package collector

import (
	"errors"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/han-fei/hostmon/internal/utils"
)

// statLine 构造一行/proc/stat，idle与iowait决定非活跃时间
func statLine(id int, user, system, idle, iowait uint64) string {
	return fmt.Sprintf("cpu%d %d 0 %d %d %d 0 0 0 0 0\n", id, user, system, idle, iowait)
}

func newStatFS(content string) fstest.MapFS {
	return fstest.MapFS{statFile: &fstest.MapFile{Data: []byte(content)}}
}

func setStat(fsys fstest.MapFS, content string) {
	fsys[statFile] = &fstest.MapFile{Data: []byte(content)}
}

// TestCPUFirstSample 测试首次采样使用累计值：total=200 active=150
func TestCPUFirstSample(t *testing.T) {
	fsys := newStatFS("cpu  999 0 0 0 0 0 0 0\n" + statLine(2, 100, 50, 40, 10))
	c, err := NewCPUCollector(NewSource(fsys, "/proc"), []int{2})
	require.NoError(t, err)

	lines, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cpu2: 75.00 %"}, lines)
}

// TestCPUDelta 测试增量计算：(200-150)/(300-200)=50%
func TestCPUDelta(t *testing.T) {
	fsys := newStatFS(statLine(0, 100, 50, 40, 10))
	c, err := NewCPUCollector(NewSource(fsys, "/proc"), []int{0})
	require.NoError(t, err)

	_, err = c.Collect()
	require.NoError(t, err)

	setStat(fsys, statLine(0, 150, 50, 80, 20))
	lines, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cpu0: 50.00 %"}, lines)
}

// TestCPUIntervalInsufficient 测试total未变化时不产生除零
func TestCPUIntervalInsufficient(t *testing.T) {
	fsys := newStatFS(statLine(1, 100, 50, 40, 10))
	c, err := NewCPUCollector(NewSource(fsys, "/proc"), []int{1})
	require.NoError(t, err)

	first, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cpu1: 75.00 %"}, first)

	// 数据源不变时每次都报告间隔不足
	for i := 0; i < 3; i++ {
		lines, err := c.Collect()
		require.NoError(t, err)
		assert.Equal(t, []string{"Measurement interval for Cpu1 is insufficient"}, lines)
	}
}

// TestCPUNotFound 测试缺失的CPU不会中断采集
func TestCPUNotFound(t *testing.T) {
	fsys := newStatFS("cpu  1 1 1 1 1 1 1 1\n" + statLine(0, 100, 50, 40, 10) + "intr 12345\n")
	c, err := NewCPUCollector(NewSource(fsys, "/proc"), []int{7, 0, 9})
	require.NoError(t, err)

	lines, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Error: Cpu7 not found!",
		"Cpu0: 75.00 %",
		"Error: Cpu9 not found!",
	}, lines)
}

// TestCPURegistrationOrder 测试输出顺序与注册顺序一致
func TestCPURegistrationOrder(t *testing.T) {
	fsys := newStatFS(statLine(0, 100, 0, 100, 0) + statLine(1, 30, 0, 70, 0))
	c, err := NewCPUCollector(NewSource(fsys, "/proc"), []int{1, 0})
	require.NoError(t, err)

	lines, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cpu1: 30.00 %", "Cpu0: 50.00 %"}, lines)
	assert.Equal(t, []int{1, 0}, c.IDs())
}

// TestCPUDuplicateIDs 测试重复编号作为独立跟踪器
func TestCPUDuplicateIDs(t *testing.T) {
	fsys := newStatFS(statLine(3, 100, 50, 40, 10))
	c, err := NewCPUCollector(NewSource(fsys, "/proc"), []int{3, 3})
	require.NoError(t, err)

	lines, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cpu3: 75.00 %", "Cpu3: 75.00 %"}, lines)

	setStat(fsys, statLine(3, 150, 50, 80, 20))
	lines, err = c.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cpu3: 50.00 %", "Cpu3: 50.00 %"}, lines)
}

// TestCPUMalformedFields 测试缺失和非法字段按0处理
func TestCPUMalformedFields(t *testing.T) {
	// user=60 nice=x system=缺失 ... 只有idle=40
	fsys := newStatFS("cpu0 60 x 0 40\ncpuX 1 2 3\n")
	c, err := NewCPUCollector(NewSource(fsys, "/proc"), []int{0})
	require.NoError(t, err)

	lines, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"Cpu0: 60.00 %"}, lines)
}

// TestCPUZeroTotal 测试全零计数不会产生NaN
func TestCPUZeroTotal(t *testing.T) {
	fsys := newStatFS("cpu0 0 0 0 0 0 0 0 0\n")
	c, err := NewCPUCollector(NewSource(fsys, "/proc"), []int{0})
	require.NoError(t, err)

	lines, err := c.Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"Measurement interval for Cpu0 is insufficient"}, lines)
}

// TestCPUSourceUnavailable 测试数据源不可读
func TestCPUSourceUnavailable(t *testing.T) {
	c, err := NewCPUCollector(NewSource(fstest.MapFS{}, "/proc"), []int{0})
	require.NoError(t, err)

	_, err = c.Collect()
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "/proc/stat")
}

// TestCPUInvalidID 测试负数编号
func TestCPUInvalidID(t *testing.T) {
	_, err := NewCPUCollector(NewSource(fstest.MapFS{}, "/proc"), []int{0, -1})
	assert.Error(t, err)
}
