package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/han-fei/hostmon/agent/internal/config"
	"github.com/han-fei/hostmon/internal/utils"
	"github.com/han-fei/hostmon/pkg/interfaces"
)

// writerOutput 写入后立即刷新的输出
type writerOutput struct {
	name     string
	resource string
	w        *bufio.Writer
}

func (o *writerOutput) Name() string {
	return o.name
}

// Write 写入报告并刷新，不跨周期缓冲
func (o *writerOutput) Write(report string) error {
	if _, err := o.w.WriteString(report); err != nil {
		return utils.NewSinkError(o.resource, err)
	}
	if err := o.w.Flush(); err != nil {
		return utils.NewSinkError(o.resource, err)
	}
	return nil
}

// ConsoleOutput 标准输出
type ConsoleOutput struct {
	writerOutput
}

// NewConsoleOutput 创建控制台输出
func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{writerOutput{name: "console", resource: "stdout", w: bufio.NewWriter(w)}}
}

// Close 控制台不关闭底层流
func (o *ConsoleOutput) Close() error {
	return o.w.Flush()
}

// LogOutput 追加写入的日志文件
type LogOutput struct {
	writerOutput
	file *os.File
}

// NewLogOutput 以追加模式打开日志文件，目录必须已存在
func NewLogOutput(path string) (*LogOutput, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, utils.NewSinkError(path, err)
	}
	return &LogOutput{
		writerOutput: writerOutput{name: "log", resource: path, w: bufio.NewWriter(file)},
		file:         file,
	}, nil
}

// Path 日志文件路径
func (o *LogOutput) Path() string {
	return o.resource
}

// Close 刷新并关闭文件
func (o *LogOutput) Close() error {
	flushErr := o.w.Flush()
	closeErr := o.file.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return utils.NewSinkError(o.resource, err)
	}
	return nil
}

// OutputFactory 根据描述创建输出
type OutputFactory struct {
	stdout io.Writer
}

// NewOutputFactory 创建输出工厂，stdout为nil时使用os.Stdout
func NewOutputFactory(stdout io.Writer) *OutputFactory {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &OutputFactory{stdout: stdout}
}

// Create 按type分派到对应构造函数
func (f *OutputFactory) Create(desc config.OutputDescriptor) (interfaces.Output, error) {
	switch desc.Type {
	case "console":
		return NewConsoleOutput(f.stdout), nil
	case "log":
		if desc.Path == "" {
			return nil, utils.NewConfigurationError(desc.Type, errors.New("missing path"))
		}
		out, err := NewLogOutput(desc.Path)
		if err != nil {
			return nil, utils.NewConfigurationError(desc.Type, err)
		}
		return out, nil
	}
	return nil, utils.NewConfigurationError(desc.Type, fmt.Errorf("unknown output type %q", desc.Type))
}
