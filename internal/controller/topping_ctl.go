package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/service"
)

type ToppingController struct {
	toppingService *service.ToppingService
	productService *service.ProductService
}

func NewToppingController(toppingService *service.ToppingService, productService *service.ProductService) *ToppingController {
	return &ToppingController{toppingService: toppingService, productService: productService}
}

// ListToppings 配料表格
// @Summary 获取工作副本中的配料列表
// @Tags Topping
// @Success 200 {array} dto.ToppingRow
// @Router /api/toppings [get]
func (ctrl *ToppingController) ListToppings(c *gin.Context) {
	success(c, ctrl.toppingService.List())
}

// ReloadToppings 重新读取 toppings.json
// @Tags Topping
// @Router /api/toppings/reload [post]
func (ctrl *ToppingController) ReloadToppings(c *gin.Context) {
	success(c, ctrl.toppingService.Reload())
}

// SaveToppings 整份写回 toppings.json
// @Tags Topping
// @Router /api/toppings/save [post]
func (ctrl *ToppingController) SaveToppings(c *gin.Context) {
	if err := ctrl.toppingService.Save(); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "Toppings saved to JSON!"})
}

// NewTopping 新建配料的预填内容
// @Tags Topping
// @Success 200 {object} dto.ToppingDraft
// @Router /api/toppings/new [get]
func (ctrl *ToppingController) NewTopping(c *gin.Context) {
	success(c, ctrl.toppingService.NewDraft())
}

// GetTopping 编辑配料的预填内容
// @Tags Topping
// @Param id path string true "配料ID"
// @Success 200 {object} dto.ToppingDraft
// @Router /api/toppings/{id} [get]
func (ctrl *ToppingController) GetTopping(c *gin.Context) {
	draft, err := ctrl.toppingService.EditDraft(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	success(c, draft)
}

// CreateTopping 确认新建
// @Tags Topping
// @Param body body dto.ToppingForm true "配料表单"
// @Router /api/toppings [post]
func (ctrl *ToppingController) CreateTopping(c *gin.Context) {
	var form dto.ToppingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	topping, warnings, err := ctrl.toppingService.Add(&form)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": topping, "warnings": nonNil(warnings)})
}

// UpdateTopping 确认编辑
// @Tags Topping
// @Param id path string true "配料ID"
// @Param body body dto.ToppingForm true "配料表单"
// @Router /api/toppings/{id} [put]
func (ctrl *ToppingController) UpdateTopping(c *gin.Context) {
	var form dto.ToppingForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	topping, warnings, err := ctrl.toppingService.Update(c.Param("id"), &form)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": topping, "warnings": nonNil(warnings)})
}

// DeleteTopping 删除配料，不清理商品中的引用
// @Tags Topping
// @Param id path string true "配料ID"
// @Param confirm query bool true "确认删除"
// @Router /api/toppings/{id} [delete]
func (ctrl *ToppingController) DeleteTopping(c *gin.Context) {
	if err := ctrl.toppingService.Delete(c.Param("id"), c.Query("confirm") == "true"); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "删除成功"})
}

// DanglingToppings 悬挂引用检查
// @Summary 列出引用了不存在配料的商品 (只读)
// @Tags Topping
// @Success 200 {array} dto.DanglingRef
// @Router /api/toppings/dangling [get]
func (ctrl *ToppingController) DanglingToppings(c *gin.Context) {
	success(c, ctrl.toppingService.Dangling(ctrl.productService.Snapshot()))
}
