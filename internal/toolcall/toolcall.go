// Package toolcall 提供面向 Ollama 兼容端点的函数调用（tool calling）垫片。
//
// 模型返回 tool_calls 时，垫片执行已注册的处理函数，把结果以 tool 角色消息
// 回传给模型，直到模型给出纯文本回答或达到轮次上限。
package toolcall

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lk2023060901/local-llm-toolkit/internal/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// maxRounds 工具调用轮次上限，防止模型循环调用
const maxRounds = 5

// Handler 工具处理函数，入参为模型生成的 JSON 参数
type Handler func(ctx context.Context, arguments json.RawMessage) (string, error)

// Shim 工具调用垫片
type Shim struct {
	client   *openai.Client
	model    string
	tools    []openai.Tool
	handlers map[string]Handler
	logger   *logger.Logger
}

// Config 垫片配置
type Config struct {
	BaseURL string // Ollama 兼容端点，例如 http://localhost:11434/v1
	APIKey  string // 本地端点通常不校验，允许占位值
	Model   string
}

// New 创建工具调用垫片
func New(cfg *Config, lgr *logger.Logger) (*Shim, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "ollama" // 本地端点不校验密钥，但客户端要求非空
	}

	var log *logger.Logger
	if lgr == nil {
		log = logger.L()
	} else {
		log = lgr
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Shim{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		handlers: make(map[string]Handler),
		logger:   log,
	}, nil
}

// RegisterTool 注册一个函数工具，parameters 为 JSON Schema
func (s *Shim) RegisterTool(name, description string, parameters json.RawMessage, h Handler) error {
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if h == nil {
		return fmt.Errorf("tool handler is required")
	}
	if _, ok := s.handlers[name]; ok {
		return fmt.Errorf("tool %q already registered", name)
	}

	s.tools = append(s.tools, openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	})
	s.handlers[name] = h

	return nil
}

// Run 发送用户消息并驱动工具调用循环，返回模型的最终文本回答
func (s *Shim) Run(ctx context.Context, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	for round := 0; round < maxRounds; round++ {
		resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    s.model,
			Messages: messages,
			Tools:    s.tools,
		})
		if err != nil {
			return "", fmt.Errorf("chat completion failed: %w", err)
		}

		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in response")
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg)

		for _, call := range msg.ToolCalls {
			result, err := s.dispatch(ctx, call)
			if err != nil {
				s.logger.Error("tool execution failed",
					zap.String("tool", call.Function.Name),
					zap.Error(err))
				result = fmt.Sprintf("Error: %v", err)
			}

			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("tool call loop exceeded %d rounds", maxRounds)
}

// dispatch 执行单个工具调用
func (s *Shim) dispatch(ctx context.Context, call openai.ToolCall) (string, error) {
	h, ok := s.handlers[call.Function.Name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", call.Function.Name)
	}

	s.logger.Info("executing tool",
		zap.String("tool", call.Function.Name),
		zap.String("arguments", call.Function.Arguments))

	return h(ctx, json.RawMessage(call.Function.Arguments))
}
