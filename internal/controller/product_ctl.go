package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/service"
	"bitebabe_admin/pkg/logger"
)

type ProductController struct {
	productService *service.ProductService
	storageService *service.StorageService
}

func NewProductController(productService *service.ProductService, storageService *service.StorageService) *ProductController {
	return &ProductController{productService: productService, storageService: storageService}
}

// ==================== 列表 ====================

// ListProducts 商品表格
// @Summary 获取工作副本中的商品列表
// @Tags Product
// @Produce json
// @Success 200 {array} dto.ProductRow
// @Router /api/products [get]
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	success(c, ctrl.productService.List())
}

// ReloadProducts 刷新
// @Summary 放弃未保存的修改，重新读取 products.json
// @Tags Product
// @Produce json
// @Success 200 {array} dto.ProductRow
// @Router /api/products/reload [post]
func (ctrl *ProductController) ReloadProducts(c *gin.Context) {
	success(c, ctrl.productService.Reload())
}

// SaveProducts 保存
// @Summary 将工作副本整份写回 products.json，并清理不再被引用的镜像图片
// @Tags Product
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/products/save [post]
func (ctrl *ProductController) SaveProducts(c *gin.Context) {
	before := ctrl.productService.SavedImages()
	if err := ctrl.productService.Save(); err != nil {
		abortWithError(c, err)
		return
	}
	// 保存成功后再清理不再引用的镜像
	ctrl.storageService.PruneMirror(c.Request.Context(), before, ctrl.productService.Images())
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "Products saved to JSON!"})
}

// ==================== 编辑弹窗 ====================

// NewProduct 新建商品的预填内容
// @Summary 新建商品草稿 (生成 ID，默认值与配料勾选列表)
// @Tags Product
// @Produce json
// @Success 200 {object} dto.ProductDraft
// @Router /api/products/new [get]
func (ctrl *ProductController) NewProduct(c *gin.Context) {
	success(c, ctrl.productService.NewDraft())
}

// GetProduct 编辑商品的预填内容
// @Summary 获取商品草稿，已关联的配料处于勾选状态
// @Tags Product
// @Param id path string true "商品ID"
// @Success 200 {object} dto.ProductDraft
// @Router /api/products/{id} [get]
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	draft, err := ctrl.productService.EditDraft(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	success(c, draft)
}

// CreateProduct 确认新建
// @Summary 追加商品到工作副本 (需调用保存才会写入文件)
// @Tags Product
// @Accept json
// @Produce json
// @Param body body dto.ProductForm true "商品表单"
// @Success 200 {object} model.Product
// @Router /api/products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var form dto.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	product, warnings, err := ctrl.productService.Add(&form)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     0,
		"message":  "success",
		"data":     product,
		"warnings": nonNil(warnings),
	})
}

// UpdateProduct 确认编辑
// @Summary 原位替换工作副本中的商品，ID 以路径为准
// @Tags Product
// @Accept json
// @Produce json
// @Param id path string true "商品ID"
// @Param body body dto.ProductForm true "商品表单"
// @Success 200 {object} model.Product
// @Router /api/products/{id} [put]
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	var form dto.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + err.Error()})
		return
	}

	product, warnings, err := ctrl.productService.Update(c.Param("id"), &form)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":     0,
		"message":  "success",
		"data":     product,
		"warnings": nonNil(warnings),
	})
}

// DeleteProduct 删除商品
// @Summary 从工作副本删除商品，必须带 confirm=true
// @Tags Product
// @Param id path string true "商品ID"
// @Param confirm query bool true "确认删除"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/products/{id} [delete]
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	if err := ctrl.productService.Delete(c.Param("id"), c.Query("confirm") == "true"); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "删除成功"})
}

// ==================== 图片 ====================

// UploadImage 导入商品图片
// @Summary 复制图片到 assets/products，支持 multipart 上传、本地路径、网络地址
// @Tags Product
// @Accept json,mpfd
// @Produce json
// @Param file formData file false "图片文件"
// @Param body body dto.ImageUploadReq false "本地路径或网络地址"
// @Success 200 {object} dto.ImageUploadResp
// @Failure 500 {object} dto.ImageUploadResp "复制失败，image 为源文件绝对路径"
// @Router /api/products/image [post]
func (ctrl *ProductController) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		req       dto.ImageUploadReq
		image     string
		mirrorURL string
		err       error
	)

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req.ProductID = c.PostForm("product_id")
		if !ctrl.checkProduct(c, req.ProductID) {
			return
		}
		fileHeader, ferr := c.FormFile("file")
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "缺少文件: " + ferr.Error()})
			return
		}
		file, ferr := fileHeader.Open()
		if ferr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "读取文件失败: " + ferr.Error()})
			return
		}
		defer file.Close()
		image, mirrorURL, err = ctrl.storageService.SaveUpload(ctx, fileHeader.Filename, file)
	} else {
		if berr := c.ShouldBindJSON(&req); berr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "message": "参数错误: " + berr.Error()})
			return
		}
		if !ctrl.checkProduct(c, req.ProductID) {
			return
		}
		switch {
		case req.SourcePath != "":
			image, mirrorURL, err = ctrl.storageService.ImportFile(ctx, req.SourcePath)
		case req.SourceURL != "":
			image, mirrorURL, err = ctrl.storageService.ImportURL(ctx, req.SourceURL)
		default:
			err = service.ErrEmptySource
		}
	}

	// 复制失败时 image 为源文件绝对路径，同样写入商品
	if image != "" && req.ProductID != "" {
		if serr := ctrl.productService.SetImage(req.ProductID, image); serr != nil {
			logger.S().Warnf("[Product] 写入图片路径失败 %s: %v", req.ProductID, serr)
		}
	}

	resp := dto.ImageUploadResp{Image: image, MirrorURL: mirrorURL}
	if err != nil {
		status := errorStatus(err)
		c.JSON(status, gin.H{"code": status, "message": err.Error(), "data": resp})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "Image copied to " + service.AssetsRelDir,
		"data":    resp,
	})
}

// checkProduct product_id 非空时必须存在于工作副本
func (ctrl *ProductController) checkProduct(c *gin.Context, id string) bool {
	if id == "" {
		return true
	}
	if _, err := ctrl.productService.Get(id); err != nil {
		abortWithError(c, err)
		return false
	}
	return true
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
