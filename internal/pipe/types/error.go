package types

import (
	"errors"
	"fmt"
)

// ErrorKind 管道错误分类
type ErrorKind string

const (
	// ErrorKindPrecondition 前置条件失败（图片数量/大小超限），发生在任何网络调用之前，不可重试
	ErrorKindPrecondition ErrorKind = "precondition"
	// ErrorKindTransport 网络错误、超时或非 2xx 状态码
	ErrorKindTransport ErrorKind = "transport"
	// ErrorKindDecode 响应帧或 JSON 解析失败
	ErrorKindDecode ErrorKind = "decode"
	// ErrorKindConfig 配置错误（API Key 缺失等，通常由服务端以 401 的形式暴露）
	ErrorKindConfig ErrorKind = "config"
)

// PipeError 管道结构化错误。内部组件只返回结构化错误，
// 仅在 Pipe 门面处统一拍平为 "Error:" 前缀的字符串。
type PipeError struct {
	Kind       ErrorKind // 错误分类
	StatusCode int       // HTTP 状态码（仅 transport 错误有效）
	Message    string    // 错误消息
	Err        error     // 原始错误
}

func (e *PipeError) Error() string {
	if e.StatusCode != 0 {
		if e.Err != nil {
			return fmt.Sprintf("[%s] HTTP %d: %s: %v", e.Kind, e.StatusCode, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s] HTTP %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *PipeError) Unwrap() error {
	return e.Err
}

// NewPreconditionError 创建前置条件错误
func NewPreconditionError(message string) *PipeError {
	return &PipeError{
		Kind:    ErrorKindPrecondition,
		Message: message,
	}
}

// NewTransportError 创建传输错误
func NewTransportError(statusCode int, message string, err error) *PipeError {
	return &PipeError{
		Kind:       ErrorKindTransport,
		StatusCode: statusCode,
		Message:    message,
		Err:        err,
	}
}

// NewDecodeError 创建解码错误
func NewDecodeError(message string, err error) *PipeError {
	return &PipeError{
		Kind:    ErrorKindDecode,
		Message: message,
		Err:     err,
	}
}

// IsKind 判断错误是否为指定分类的 PipeError
func IsKind(err error, kind ErrorKind) bool {
	var pipeErr *PipeError
	if errors.As(err, &pipeErr) {
		return pipeErr.Kind == kind
	}
	return false
}
