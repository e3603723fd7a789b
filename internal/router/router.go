package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"bitebabe_admin/internal/controller"
	"bitebabe_admin/internal/middleware"
)

const (
	loginCooldown = 2 * time.Second
	pushCooldown  = 10 * time.Second
)

// Controllers 所有路由用到的控制器
type Controllers struct {
	Auth    *controller.AuthController
	Landing *controller.LandingController
	Product *controller.ProductController
	Topping *controller.ToppingController
	Theme   *controller.ThemeController
	Deploy  *controller.DeployController
}

// Options 路由选项
type Options struct {
	AuthEnabled bool
	// AssetsRoot 站点 assets 目录，挂载到 /assets 供预览图片
	AssetsRoot string
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, ctls *Controllers, opts Options) {
	limiter := middleware.NewCooldownLimiter()

	if opts.AssetsRoot != "" {
		r.Static("/assets", opts.AssetsRoot)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// auth 鉴权组 (无需 Token)
		auth := api.Group("/auth")
		{
			// POST /api/auth/login
			auth.POST("/login", middleware.Cooldown(limiter, "auth:login", loginCooldown), ctls.Auth.Login)
			// POST /api/auth/refresh
			auth.POST("/refresh", ctls.Auth.Refresh)
		}

		editor := api.Group("")
		if opts.AuthEnabled {
			editor.Use(middleware.JWTAuth())
		}

		// 落地页
		editor.GET("/landing", ctls.Landing.GetLanding)
		editor.PUT("/landing", ctls.Landing.UpdateLanding)

		// 商品
		products := editor.Group("/products")
		{
			products.GET("", ctls.Product.ListProducts)
			products.GET("/new", ctls.Product.NewProduct)
			products.POST("", ctls.Product.CreateProduct)
			products.POST("/save", ctls.Product.SaveProducts)
			products.POST("/reload", ctls.Product.ReloadProducts)
			products.POST("/image", ctls.Product.UploadImage)
			products.GET("/:id", ctls.Product.GetProduct)
			products.PUT("/:id", ctls.Product.UpdateProduct)
			products.DELETE("/:id", ctls.Product.DeleteProduct)
		}

		// 配料
		toppings := editor.Group("/toppings")
		{
			toppings.GET("", ctls.Topping.ListToppings)
			toppings.GET("/new", ctls.Topping.NewTopping)
			toppings.GET("/dangling", ctls.Topping.DanglingToppings)
			toppings.POST("", ctls.Topping.CreateTopping)
			toppings.POST("/save", ctls.Topping.SaveToppings)
			toppings.POST("/reload", ctls.Topping.ReloadToppings)
			toppings.GET("/:id", ctls.Topping.GetTopping)
			toppings.PUT("/:id", ctls.Topping.UpdateTopping)
			toppings.DELETE("/:id", ctls.Topping.DeleteTopping)
		}

		// 店铺主题
		editor.GET("/store", ctls.Theme.GetStore)
		editor.PUT("/store", ctls.Theme.UpdateStore)

		// 部署面板
		deploy := editor.Group("/deploy")
		{
			deploy.GET("/status", ctls.Deploy.GetStatus)
			deploy.POST("/init", ctls.Deploy.InitRepo)
			deploy.POST("/push", middleware.Cooldown(limiter, "deploy:push", pushCooldown), ctls.Deploy.Push)
			deploy.GET("/logs", ctls.Deploy.GetLogs)
			deploy.DELETE("/logs", ctls.Deploy.ClearLogs)
			deploy.GET("/history", ctls.Deploy.GetHistory)
			deploy.DELETE("/history", ctls.Deploy.ClearHistory)
		}
	}
}
