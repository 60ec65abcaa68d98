// Package service 暴露协作工具（扫描、检索、导出）的 HTTP 接口。
//
// 工具层面的失败按原始脚本的约定拍平为 "Error: ..." 文本返回，
// HTTP 状态保持 200；只有请求本身不合法才返回 4xx。
package service

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/local-llm-toolkit/internal/pkg/response"
	"github.com/lk2023060901/local-llm-toolkit/internal/tools/exporter"
	"github.com/lk2023060901/local-llm-toolkit/internal/tools/retriever"
	"github.com/lk2023060901/local-llm-toolkit/internal/tools/scanner"
)

// ToolsService 协作工具 HTTP 服务
type ToolsService struct {
	retriever    *retriever.Retriever
	exporter     *exporter.Exporter
	knowledgeDir string // 检索的默认目录
	logger       *zap.Logger
}

// NewToolsService 创建工具服务
func NewToolsService(r *retriever.Retriever, e *exporter.Exporter, knowledgeDir string, logger *zap.Logger) *ToolsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ToolsService{retriever: r, exporter: e, knowledgeDir: knowledgeDir, logger: logger}
}

// RegisterRoutes 注册路由
func (s *ToolsService) RegisterRoutes(r *gin.RouterGroup) {
	tools := r.Group("/tools")
	{
		tools.POST("/scan", s.Scan)
		tools.POST("/retrieve", s.Retrieve)
		tools.POST("/export", s.Export)
	}
}

// ScanRequest 目录扫描请求
type ScanRequest struct {
	Path string `json:"path" binding:"required"`
}

// Scan 列出目录下的全部文件
// @Summary Scan a directory for files
// @Tags tools
// @Accept json
// @Produce json
// @Param request body ScanRequest true "Scan Request"
// @Success 200 {object} response.Response
// @Router /api/v1/tools/scan [post]
func (s *ToolsService) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	files, err := scanner.Scan(req.Path)
	if err != nil {
		response.Success(c, gin.H{"result": "Error: " + err.Error()})
		return
	}

	response.Success(c, gin.H{"files": files})
}

// RetrieveRequest 关键词检索请求。path 缺省时使用配置的文档目录
type RetrieveRequest struct {
	Query string `json:"query" binding:"required"`
	Path  string `json:"path"`
}

// Retrieve 在目录下按关键词检索文档
// @Summary Retrieve documents matching a keyword query
// @Tags tools
// @Accept json
// @Produce json
// @Param request body RetrieveRequest true "Retrieve Request"
// @Success 200 {object} response.Response
// @Router /api/v1/tools/retrieve [post]
func (s *ToolsService) Retrieve(c *gin.Context) {
	var req RetrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if req.Path == "" {
		req.Path = s.knowledgeDir
	}
	if req.Path == "" {
		response.BadRequest(c, "path is required")
		return
	}

	result, err := s.retriever.Retrieve(c.Request.Context(), req.Query, req.Path)
	if err != nil {
		s.logger.Error("retrieval failed",
			zap.String("query", req.Query),
			zap.String("path", req.Path),
			zap.Error(err))
		result = "Error: " + err.Error()
	}

	response.Success(c, gin.H{"result": result})
}

// ExportRequest 文档导出请求
type ExportRequest struct {
	Text string `json:"text" binding:"required"`
	Path string `json:"path" binding:"required"`
}

// Export 把文本导出为 docx/xlsx/pptx 文档
// @Summary Export chat output to a document
// @Tags tools
// @Accept json
// @Produce json
// @Param request body ExportRequest true "Export Request"
// @Success 200 {object} response.Response
// @Router /api/v1/tools/export [post]
func (s *ToolsService) Export(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := s.exporter.Export(req.Text, req.Path); err != nil {
		s.logger.Error("export failed",
			zap.String("path", req.Path),
			zap.Error(err))
		response.Success(c, gin.H{"result": "Error: " + err.Error()})
		return
	}

	response.Success(c, gin.H{"result": "Exported to " + req.Path})
}
