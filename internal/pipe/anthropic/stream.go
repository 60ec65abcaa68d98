package anthropic

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/lk2023060901/local-llm-toolkit/internal/pipe/types"
	"go.uber.org/zap"
)

// SSE 数据行前缀
const dataPrefix = "data: "

// 单个 SSE 帧的大小上限。message 事件可能携带整条回复，
// 远超 bufio.Scanner 默认的 64 KiB 行上限
const maxFrameBytes = 10 * 1024 * 1024

// anthropicStreamEvent 流式事件帧（按 type 标签区分）
type anthropicStreamEvent struct {
	Type         string                 `json:"type"`
	Index        int                    `json:"index,omitempty"`
	ContentBlock *anthropicContentBlock `json:"content_block,omitempty"`
	Delta        *anthropicDelta        `json:"delta,omitempty"`
	Message      *anthropicResponse     `json:"message,omitempty"`
}

// anthropicDelta 增量内容
type anthropicDelta struct {
	Type       string `json:"type,omitempty"`
	Text       string `json:"text,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

// Stream 流式响应的惰性拉取迭代器。持有打开的响应体，
// 每次 Recv 推进到下一个文本增量；不可重置，不可并发使用。
type Stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	logger  *zap.Logger
	delay   time.Duration

	pending  []string // message 事件展开出的待发文本块
	emitted  bool     // 是否已产出过增量（节流从第二个增量开始）
	finished bool
}

func newStream(body io.ReadCloser, delay time.Duration, logger *zap.Logger) *Stream {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameBytes)

	return &Stream{
		body:    body,
		scanner: scanner,
		logger:  logger,
		delay:   delay,
	}
}

// Recv 返回下一个文本增量。流正常结束（message_stop 或连接关闭）时
// 返回 io.EOF。行级解析失败只跳过该行并继续，不终止流。
func (s *Stream) Recv() (string, error) {
	if s.finished {
		return "", io.EOF
	}

	if len(s.pending) > 0 {
		text := s.pending[0]
		s.pending = s.pending[1:]
		return s.emit(text), nil
	}

	for s.scanner.Scan() {
		line := s.scanner.Text()
		if line == "" || !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		data := strings.TrimPrefix(line, dataPrefix)

		var event anthropicStreamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			// 宁可丢弃一行也不中断一条正常的流
			s.logger.Warn("skipping malformed stream frame",
				zap.String("data", data),
				zap.Error(err))
			continue
		}

		switch event.Type {
		case "content_block_start":
			if event.ContentBlock == nil {
				s.logger.Warn("content_block_start without content_block", zap.String("data", data))
				continue
			}
			return s.emit(event.ContentBlock.Text), nil

		case "content_block_delta":
			if event.Delta == nil {
				s.logger.Warn("content_block_delta without delta", zap.String("data", data))
				continue
			}
			return s.emit(event.Delta.Text), nil

		case "message_stop":
			s.finish()
			return "", io.EOF

		case "message":
			if event.Message == nil {
				s.logger.Warn("message event without message", zap.String("data", data))
				continue
			}
			for _, block := range event.Message.Content {
				if block.Type == "text" {
					s.pending = append(s.pending, block.Text)
				}
			}
			if len(s.pending) > 0 {
				text := s.pending[0]
				s.pending = s.pending[1:]
				return s.emit(text), nil
			}

		default:
			// 未知事件类型静默跳过，保持向前兼容
		}
	}

	err := s.scanner.Err()
	s.finish()
	if err != nil {
		return "", types.NewTransportError(0, "stream read failed", err)
	}

	// 服务端关闭连接视为正常结束
	return "", io.EOF
}

// Close 释放底层连接。消费方中途放弃时必须调用。
func (s *Stream) Close() error {
	return s.finish()
}

func (s *Stream) finish() error {
	if s.finished {
		return nil
	}
	s.finished = true
	return s.body.Close()
}

// emit 产出一个增量，并在增量之间插入节流间隔以保护慢速消费方
func (s *Stream) emit(text string) string {
	if s.emitted && s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.emitted = true
	return text
}
