package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/service"
)

type LandingController struct {
	landingService *service.LandingService
}

func NewLandingController(landingService *service.LandingService) *LandingController {
	return &LandingController{landingService: landingService}
}

// GetLanding 读取落地页表单
// @Summary 读取落地页内容
// @Tags Landing
// @Produce json
// @Success 200 {object} dto.LandingForm
// @Router /api/landing [get]
func (ctrl *LandingController) GetLanding(c *gin.Context) {
	success(c, ctrl.landingService.Open())
}

// UpdateLanding 保存落地页
// @Summary 整份覆盖落地页内容，标题为空的特性被丢弃
// @Tags Landing
// @Accept json
// @Produce json
// @Param body body dto.LandingForm true "落地页表单"
// @Success 200 {object} model.LandingPage
// @Router /api/landing [put]
func (ctrl *LandingController) UpdateLanding(c *gin.Context) {
	var form dto.LandingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	page, err := ctrl.landingService.Save(&form)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Landing Page updated!",
		"data":    page,
	})
}
