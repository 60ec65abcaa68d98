// Package pipe 实现聊天补全管道：把前端 UI 的通用聊天请求翻译为
// Anthropic Messages API 请求，并把响应（整体或增量）还原为纯文本。
//
// 内部各层（payload 构建、传输、解码）返回结构化错误；
// 所有失败在本门面统一拍平为 "Error:" 前缀的字符串，
// 不向调用方传播任何结构化异常。
package pipe

import (
	"context"
	"io"

	"github.com/lk2023060901/local-llm-toolkit/internal/pipe/anthropic"
	"github.com/lk2023060901/local-llm-toolkit/internal/pipe/types"
	"go.uber.org/zap"
)

// Pipe 聊天补全管道门面
type Pipe struct {
	provider *anthropic.Provider
	logger   *zap.Logger
}

// New 创建管道
func New(config *types.Config, logger *zap.Logger) *Pipe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipe{
		provider: anthropic.New(config, logger),
		logger:   logger,
	}
}

// Models 返回可用模型目录
func (p *Pipe) Models() []types.Model {
	return p.provider.Models()
}

// Complete 同步补全。任何失败都以 "Error:" 前缀的字符串返回
func (p *Pipe) Complete(ctx context.Context, req *types.CompletionRequest) string {
	text, err := p.provider.Complete(ctx, req)
	if err != nil {
		p.logger.Error("completion failed", zap.Error(err))
		return errorString(err)
	}
	return text
}

// CompleteStream 流式补全。返回的序列逐个产出文本增量；
// 底层失败以一个 "Error:" 增量出现在序列中，随后序列终止
func (p *Pipe) CompleteStream(ctx context.Context, req *types.CompletionRequest) *TextStream {
	stream, err := p.provider.CompleteStream(ctx, req)
	if err != nil {
		p.logger.Error("stream completion failed", zap.Error(err))
		return &TextStream{errText: errorString(err)}
	}
	return &TextStream{inner: stream, logger: p.logger}
}

// TextStream 文本增量的惰性序列。Next 返回下一个增量，
// 序列耗尽时第二个返回值为 false
type TextStream struct {
	inner   *anthropic.Stream
	logger  *zap.Logger
	errText string
	done    bool
}

// Next 拉取下一个文本增量
func (s *TextStream) Next() (string, bool) {
	if s.done {
		return "", false
	}

	// 构造时就已失败：产出唯一的错误增量后终止
	if s.inner == nil {
		s.done = true
		return s.errText, true
	}

	text, err := s.inner.Recv()
	if err == io.EOF {
		s.done = true
		return "", false
	}
	if err != nil {
		s.logger.Error("stream receive failed", zap.Error(err))
		s.done = true
		s.inner.Close()
		return errorString(err), true
	}
	return text, true
}

// Close 提前放弃消费时释放底层连接
func (s *TextStream) Close() {
	s.done = true
	if s.inner != nil {
		s.inner.Close()
	}
}

// errorString 把结构化错误拍平为调用方可见的字符串
func errorString(err error) string {
	return "Error: " + err.Error()
}
