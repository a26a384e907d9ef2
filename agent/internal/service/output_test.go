package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/han-fei/hostmon/agent/internal/config"
	"github.com/han-fei/hostmon/internal/utils"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

// TestConsoleOutput 测试控制台输出立即刷新
func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewConsoleOutput(&buf)

	require.NoError(t, out.Write("report-1\n"))
	assert.Equal(t, "report-1\n", buf.String())
	require.NoError(t, out.Write("report-2\n"))
	assert.Equal(t, "report-1\nreport-2\n", buf.String())
	assert.NoError(t, out.Close())
}

// TestConsoleOutputFailure 测试写入失败返回SinkUnavailable
func TestConsoleOutputFailure(t *testing.T) {
	out := NewConsoleOutput(failingWriter{})
	err := out.Write("report\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrSinkUnavailable))
	assert.Equal(t, "stdout", utils.ResourceOf(err))
}

// TestLogOutputAppend 测试追加写入
func TestLogOutputAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.log")
	require.NoError(t, os.WriteFile(path, []byte("existing\n"), 0644))

	out, err := NewLogOutput(path)
	require.NoError(t, err)
	assert.Equal(t, path, out.Path())

	require.NoError(t, out.Write("report-1\n"))

	// 每次写入后文件内容立即可见
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nreport-1\n", string(data))

	require.NoError(t, out.Close())

	reopened, err := NewLogOutput(path)
	require.NoError(t, err)
	require.NoError(t, reopened.Write("report-2\n"))
	require.NoError(t, reopened.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing\nreport-1\nreport-2\n", string(data))
}

// TestLogOutputMissingDir 测试目录不存在时创建失败
func TestLogOutputMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "monitor.log")
	_, err := NewLogOutput(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrSinkUnavailable))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, path, utils.ResourceOf(err))
}

// TestOutputFactory 测试按类型创建输出
func TestOutputFactory(t *testing.T) {
	var buf bytes.Buffer
	f := NewOutputFactory(&buf)

	out, err := f.Create(config.OutputDescriptor{Type: "console"})
	require.NoError(t, err)
	assert.Equal(t, "console", out.Name())
	require.NoError(t, out.Write("hello\n"))
	assert.Equal(t, "hello\n", buf.String())

	path := filepath.Join(t.TempDir(), "out.log")
	out, err = f.Create(config.OutputDescriptor{Type: "log", Path: path})
	require.NoError(t, err)
	assert.Equal(t, "log", out.Name())
	require.NoError(t, out.Close())

	// 构造时即创建文件
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

// TestOutputFactoryErrors 测试未知类型和非法参数
func TestOutputFactoryErrors(t *testing.T) {
	f := NewOutputFactory(nil)

	_, err := f.Create(config.OutputDescriptor{Type: "syslog"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrConfiguration))
	assert.Equal(t, "syslog", utils.ResourceOf(err))

	_, err = f.Create(config.OutputDescriptor{Type: "log"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrConfiguration))

	_, err = f.Create(config.OutputDescriptor{Type: "log", Path: filepath.Join(t.TempDir(), "no", "dir.log")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrConfiguration))
	assert.True(t, errors.Is(err, utils.ErrSinkUnavailable))
	assert.Equal(t, "log", utils.ResourceOf(err))
}
