package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/service"
)

type ThemeController struct {
	themeService *service.ThemeService
}

func NewThemeController(themeService *service.ThemeService) *ThemeController {
	return &ThemeController{themeService: themeService}
}

// GetStore 读取店铺设置
// @Summary 读取店铺名称、口号、WhatsApp 与主题颜色
// @Tags Store
// @Produce json
// @Success 200 {object} dto.StoreView
// @Router /api/store [get]
func (ctrl *ThemeController) GetStore(c *gin.Context) {
	success(c, ctrl.themeService.Open())
}

// UpdateStore 保存店铺设置
// @Summary 合并保存店铺设置，文件中其它键保持不变
// @Tags Store
// @Accept json
// @Produce json
// @Param body body dto.StoreForm true "店铺设置"
// @Success 200 {object} dto.StoreView
// @Router /api/store [put]
func (ctrl *ThemeController) UpdateStore(c *gin.Context) {
	var form dto.StoreForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}
	if form.Theme == nil {
		form.Theme = map[string]string{}
	}

	view, err := ctrl.themeService.Save(&form)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Store settings saved!",
		"data":    view,
	})
}
