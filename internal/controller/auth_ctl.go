package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/service"
	"bitebabe_admin/pkg/logger"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(s *service.AuthService) *AuthController {
	return &AuthController{authService: s}
}

// Login 管理员登录
// @Summary 用户名密码登录，返回 Access / Refresh Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginReq true "登录信息"
// @Success 200 {object} dto.TokenResp
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	tokens, err := ctrl.authService.Login(&req)
	if err != nil {
		logger.S().Warnf("[Auth] 登录失败 user=%s ip=%s: %v", req.Username, c.ClientIP(), err)
		abortWithError(c, err)
		return
	}
	success(c, tokens)
}

// Refresh 刷新 Token
// @Tags Auth
// @Accept json
// @Param body body dto.RefreshReq true "Refresh Token"
// @Success 200 {object} dto.TokenResp
// @Router /api/auth/refresh [post]
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req dto.RefreshReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	tokens, err := ctrl.authService.Refresh(req.RefreshToken)
	if err != nil {
		abortWithError(c, err)
		return
	}
	success(c, tokens)
}
