package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/middleware"
	"bitebabe_admin/internal/model"
	"bitebabe_admin/internal/service"
	"bitebabe_admin/pkg/logger"
)

type DeployController struct {
	deployService *service.DeployService
}

func NewDeployController(deployService *service.DeployService) *DeployController {
	return &DeployController{deployService: deployService}
}

// GetStatus 仓库状态
// @Summary 检查项目根目录是否为 git 仓库，并读取 origin 地址
// @Tags Deploy
// @Success 200 {object} dto.DeployStatus
// @Router /api/deploy/status [get]
func (ctrl *DeployController) GetStatus(c *gin.Context) {
	success(c, ctrl.deployService.CheckStatus(c.Request.Context()))
}

// InitRepo 初始化仓库
// @Summary git init / add / 首次提交 / 主分支改名为 main
// @Tags Deploy
// @Success 200 {object} dto.DeployResult
// @Failure 500 {object} dto.DeployResult "某一步 git 命令失败，failed 为失败的命令"
// @Router /api/deploy/init [post]
func (ctrl *DeployController) InitRepo(c *gin.Context) {
	logger.S().Infof("[Deploy] %s 初始化仓库", operator(c))
	result, err := ctrl.deployService.Init(c.Request.Context())
	if err != nil {
		deployFailure(c, err, result)
		return
	}
	success(c, result)
}

// Push 备份并推送
// @Summary 配置远程、提交改动并推送到 origin main
// @Tags Deploy
// @Accept json
// @Param body body dto.PushReq true "远程仓库地址"
// @Success 200 {object} dto.DeployResult
// @Failure 400 {object} map[string]interface{} "缺少远程地址"
// @Failure 500 {object} dto.DeployResult "推送失败，hint 为处理建议"
// @Router /api/deploy/push [post]
func (ctrl *DeployController) Push(c *gin.Context) {
	var req dto.PushReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	logger.S().Infof("[Deploy] %s 发起推送 remote=%s", operator(c), req.Remote)
	result, err := ctrl.deployService.PushAll(c.Request.Context(), req.Remote)
	if err != nil {
		deployFailure(c, err, result)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": result.Message,
		"data":    result,
	})
}

// GetLogs 日志面板
// @Tags Deploy
// @Success 200 {array} string
// @Router /api/deploy/logs [get]
func (ctrl *DeployController) GetLogs(c *gin.Context) {
	success(c, ctrl.deployService.Logs())
}

// ClearLogs 清空日志面板 (不影响部署记录)
// @Tags Deploy
// @Router /api/deploy/logs [delete]
func (ctrl *DeployController) ClearLogs(c *gin.Context) {
	ctrl.deployService.ClearLogs()
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

// GetHistory 部署记录
// @Summary 已落库的 git 调用记录，最新在前；指定 run_id 时返回该次操作的全部调用
// @Tags Deploy
// @Param limit query int false "条数" default(100)
// @Param run_id query string false "面板操作ID"
// @Success 200 {array} model.DeployLog
// @Router /api/deploy/history [get]
func (ctrl *DeployController) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		logs []model.DeployLog
		err  error
	)
	if runID := c.Query("run_id"); runID != "" {
		logs, err = ctrl.deployService.RunHistory(ctx, runID)
	} else {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
		logs, err = ctrl.deployService.History(ctx, limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "查询失败: " + err.Error()})
		return
	}
	success(c, logs)
}

// ClearHistory 清空部署记录
// @Tags Deploy
// @Router /api/deploy/history [delete]
func (ctrl *DeployController) ClearHistory(c *gin.Context) {
	if err := ctrl.deployService.ClearHistory(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "message": "清空失败: " + err.Error()})
		return
	}
	logger.S().Infof("[Deploy] %s 清空了部署记录", operator(c))
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}

// operator 当前操作人，关闭认证时为 local
func operator(c *gin.Context) string {
	if name := middleware.GetUsername(c); name != "" {
		return name
	}
	return "local"
}

// deployFailure git 步骤失败返回 500 并附带本次结果，其它错误按类型映射
func deployFailure(c *gin.Context, err error, result *dto.DeployResult) {
	var deployErr *service.DeployError
	if errors.As(err, &deployErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": deployErr.Message,
			"hint":    deployErr.Hint,
			"data":    result,
		})
		return
	}
	abortWithError(c, err)
}
