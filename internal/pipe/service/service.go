package service

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lk2023060901/local-llm-toolkit/internal/pipe"
	"github.com/lk2023060901/local-llm-toolkit/internal/pipe/types"
	"github.com/lk2023060901/local-llm-toolkit/internal/pkg/response"
)

// ChatService 聊天补全 HTTP 服务
type ChatService struct {
	pipe   *pipe.Pipe
	logger *zap.Logger
}

// NewChatService 创建聊天服务
func NewChatService(p *pipe.Pipe, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{pipe: p, logger: logger}
}

// RegisterRoutes 注册路由
func (s *ChatService) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/models", s.ListModels)
	r.POST("/chat/completions", s.ChatCompletions)
}

// ListModels 返回可用模型目录
// @Summary List available models
// @Tags chat
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/models [get]
func (s *ChatService) ListModels(c *gin.Context) {
	response.Success(c, gin.H{"models": s.pipe.Models()})
}

// ChatCompletions 聊天补全接口，按 stream 字段选择整体或 SSE 增量返回
// @Summary Chat completion (buffered or streaming)
// @Tags chat
// @Accept json
// @Produce json
// @Produce text/event-stream
// @Param request body types.CompletionRequest true "Completion Request"
// @Success 200 {object} response.Response
// @Router /api/v1/chat/completions [post]
func (s *ChatService) ChatCompletions(c *gin.Context) {
	var req types.CompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	sessionID := uuid.New().String()

	s.logger.Info("chat completion request",
		zap.String("session_id", sessionID),
		zap.String("model", req.Model),
		zap.Int("message_count", len(req.Messages)),
		zap.Bool("stream", req.Stream))

	if req.Stream {
		s.streamCompletion(c, &req, sessionID)
		return
	}

	// 管道已把失败拍平为 "Error:" 前缀的文本
	text := s.pipe.Complete(c.Request.Context(), &req)
	response.Success(c, gin.H{
		"session_id": sessionID,
		"content":    text,
	})
}

// streamCompletion 以 SSE 推送文本增量
func (s *ChatService) streamCompletion(c *gin.Context, req *types.CompletionRequest, sessionID string) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.InternalError(c, "streaming not supported")
		return
	}

	stream := s.pipe.CompleteStream(c.Request.Context(), req)
	defer stream.Close()

	for {
		text, ok := stream.Next()
		if !ok {
			break
		}

		data, err := json.Marshal(gin.H{
			"session_id": sessionID,
			"content":    text,
		})
		if err != nil {
			s.logger.Error("failed to marshal stream event", zap.Error(err))
			continue
		}

		fmt.Fprintf(c.Writer, "event: token\n")
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		flusher.Flush()

		// 客户端断开时放弃剩余增量
		if c.Request.Context().Err() != nil {
			return
		}
	}

	fmt.Fprintf(c.Writer, "event: done\n")
	fmt.Fprintf(c.Writer, "data: {\"session_id\":%q}\n\n", sessionID)
	flusher.Flush()
}
