package service

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/local-llm-toolkit/internal/pkg/response"
	"github.com/lk2023060901/local-llm-toolkit/internal/toolcall"
)

// ToolcallService 工具调用 HTTP 服务
type ToolcallService struct {
	shim   *toolcall.Shim
	logger *zap.Logger
}

// NewToolcallService 创建工具调用服务
func NewToolcallService(shim *toolcall.Shim, logger *zap.Logger) *ToolcallService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolcallService{shim: shim, logger: logger}
}

// RegisterRoutes 注册路由
func (s *ToolcallService) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/toolcall", s.Run)
}

// RunRequest 工具调用请求
type RunRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// Run 驱动模型完成一次可能带工具调用的回答
// @Summary Run a prompt through the tool-calling shim
// @Tags toolcall
// @Accept json
// @Produce json
// @Param request body RunRequest true "Run Request"
// @Success 200 {object} response.Response
// @Router /api/v1/toolcall [post]
func (s *ToolcallService) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	answer, err := s.shim.Run(c.Request.Context(), req.Prompt)
	if err != nil {
		s.logger.Error("tool call run failed", zap.Error(err))
		response.Success(c, gin.H{"result": "Error: " + err.Error()})
		return
	}

	response.Success(c, gin.H{"result": answer})
}
