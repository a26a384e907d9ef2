package utils

import (
	"errors"
	"fmt"
)

// ErrorType 错误类型
type ErrorType string

const (
	ErrorTypeConfiguration     ErrorType = "configuration"
	ErrorTypeSourceUnavailable ErrorType = "source_unavailable"
	ErrorTypeSinkUnavailable   ErrorType = "sink_unavailable"
)

// 错误类型对应的哨兵错误，用于 errors.Is 判断
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrSinkUnavailable   = errors.New("sink unavailable")
)

// MonitorError 带资源名的致命错误
type MonitorError struct {
	Type     ErrorType
	Resource string
	Err      error
}

// Error 实现error接口
func (e *MonitorError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.sentinel(), e.Resource)
	}
	return fmt.Sprintf("%v: %s: %v", e.sentinel(), e.Resource, e.Err)
}

// Unwrap 同时暴露哨兵错误和原始错误
func (e *MonitorError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.sentinel()}
	}
	return []error{e.sentinel(), e.Err}
}

func (e *MonitorError) sentinel() error {
	switch e.Type {
	case ErrorTypeConfiguration:
		return ErrConfiguration
	case ErrorTypeSourceUnavailable:
		return ErrSourceUnavailable
	case ErrorTypeSinkUnavailable:
		return ErrSinkUnavailable
	}
	return errors.New(string(e.Type))
}

// NewConfigurationError 创建配置错误
func NewConfigurationError(resource string, err error) *MonitorError {
	return &MonitorError{Type: ErrorTypeConfiguration, Resource: resource, Err: err}
}

// NewSourceError 创建数据源不可用错误
func NewSourceError(resource string, err error) *MonitorError {
	return &MonitorError{Type: ErrorTypeSourceUnavailable, Resource: resource, Err: err}
}

// NewSinkError 创建输出不可用错误
func NewSinkError(resource string, err error) *MonitorError {
	return &MonitorError{Type: ErrorTypeSinkUnavailable, Resource: resource, Err: err}
}

// TypeOf 返回错误链中最外层 MonitorError 的类型
func TypeOf(err error) (ErrorType, bool) {
	var me *MonitorError
	if errors.As(err, &me) {
		return me.Type, true
	}
	return "", false
}

// ResourceOf 返回错误链中最外层 MonitorError 的资源名
func ResourceOf(err error) string {
	var me *MonitorError
	if errors.As(err, &me) {
		return me.Resource
	}
	return ""
}
