package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"bitebabe_admin/internal/controller"
	"bitebabe_admin/internal/middleware"
	"bitebabe_admin/internal/model"
	"bitebabe_admin/internal/repository"
	"bitebabe_admin/internal/router"
	"bitebabe_admin/internal/service"
	"bitebabe_admin/internal/task"
	"bitebabe_admin/pkg/config"
	"bitebabe_admin/pkg/database"
	"bitebabe_admin/pkg/logger"
	"bitebabe_admin/pkg/vcs"
)

func main() {
	app := &cli.App{
		Name:  "bitebabe-admin",
		Usage: "店铺站点内容管理后台",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径 (默认 ./config.yaml)",
				EnvVars: []string{"ADMIN_CONFIG"},
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "启动 HTTP 服务",
				Action: serve,
			},
			{
				Name:  "deploy",
				Usage: "部署面板命令",
				Subcommands: []*cli.Command{
					{
						Name:   "status",
						Usage:  "查看仓库状态",
						Action: deployStatus,
					},
					{
						Name:   "init",
						Usage:  "初始化仓库",
						Action: deployInit,
					},
					{
						Name:  "push",
						Usage: "提交并推送",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "remote", Usage: "远程仓库地址，默认取配置 deploy.remote"},
						},
						Action: deployPush,
					},
				},
			},
			{
				Name:      "hash-password",
				Usage:     "生成 auth.password_hash",
				ArgsUsage: "<password>",
				Action:    hashPassword,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	Config      *config.Config
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Content   repository.ContentRepository
	DeployLog repository.DeployLogRepository
}

// Services 服务集合
type Services struct {
	Auth    *service.AuthService
	Landing *service.LandingService
	Product *service.ProductService
	Topping *service.ToppingService
	Theme   *service.ThemeService
	Storage *service.StorageService
	Deploy  *service.DeployService
}

// ==================== 初始化函数 ====================

// loadConfig 读取配置并初始化日志
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Mode, cfg.Log.Level); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, nil
}

// initDependencies 初始化所有依赖
func initDependencies(cfg *config.Config) (*Dependencies, error) {
	db, err := database.InitDB(cfg.Database.Driver, cfg.Database.DSN, &model.DeployLog{})
	if err != nil {
		return nil, err
	}

	// -------- Repo 层 --------
	repos := &Repositories{
		Content:   repository.NewContentRepository(cfg.Content.DataDir),
		DeployLog: repository.NewDeployLogRepository(db),
	}

	// -------- 服务层 --------
	middleware.SetJWTConfig(&middleware.JWTConfig{
		SecretKey:       cfg.Auth.Secret,
		AccessTokenTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTokenTTL: cfg.Auth.RefreshTokenTTL,
		Issuer:          "bitebabe-admin",
	})

	product := service.NewProductService(repos.Content)
	services := &Services{
		Auth:    service.NewAuthService(cfg.Auth.Username, cfg.Auth.PasswordHash),
		Landing: service.NewLandingService(repos.Content),
		Product: product,
		Topping: service.NewToppingService(repos.Content),
		Theme:   service.NewThemeService(repos.Content),
		Storage: initStorageService(cfg),
		Deploy:  initDeployService(cfg, repos.DeployLog),
	}

	// -------- Controller 层 --------
	controllers := &router.Controllers{
		Auth:    controller.NewAuthController(services.Auth),
		Landing: controller.NewLandingController(services.Landing),
		Product: controller.NewProductController(services.Product, services.Storage),
		Topping: controller.NewToppingController(services.Topping, services.Product),
		Theme:   controller.NewThemeController(services.Theme),
		Deploy:  controller.NewDeployController(services.Deploy),
	}

	return &Dependencies{
		Config:      cfg,
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}, nil
}

// initStorageService 镜像初始化失败时只用本地 assets
func initStorageService(cfg *config.Config) *service.StorageService {
	s := cfg.Storage
	mirror, err := service.NewMirrorProvider(&service.MirrorConfig{
		Provider:      s.Provider,
		Bucket:        s.Bucket,
		Region:        s.Region,
		AccessKey:     s.AccessKey,
		SecretKey:     s.SecretKey,
		Endpoint:      s.Endpoint,
		CDNDomain:     s.CDNDomain,
		BasePath:      s.BasePath,
		CloudinaryURL: s.CloudinaryURL,
	})
	if err != nil {
		logger.S().Warnf("警告: 图片镜像初始化失败: %v", err)
		mirror = nil
	}
	return service.NewStorageService(cfg.AssetsDir(), mirror)
}

func initDeployService(cfg *config.Config, logRepo repository.DeployLogRepository) *service.DeployService {
	runner := vcs.NewExecRunner(cfg.Deploy.GitBinary, cfg.Content.ProjectRoot)
	return service.NewDeployService(runner, logRepo, service.DeployOptions{
		Dir:         cfg.Content.ProjectRoot,
		AuthorName:  cfg.Deploy.AuthorName,
		AuthorEmail: cfg.Deploy.AuthorEmail,
	})
}

// ==================== 命令 ====================

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	defer logger.Sync()

	generated, err := cfg.EnsureAuthSecret()
	if err != nil {
		return err
	}
	if generated {
		logger.S().Warn("[Auth] 未配置 auth.secret，已生成临时密钥，重启后需重新登录")
	}

	deps, err := initDependencies(cfg)
	if err != nil {
		return err
	}

	// 定时推送
	autoDeploy := task.NewAutoDeployTask(deps.Services.Deploy, cfg.Deploy.AutoCron, cfg.Deploy.Remote)
	if err := autoDeploy.Start(); err != nil {
		return err
	}
	defer autoDeploy.Stop()

	if !cfg.Auth.Enabled {
		logger.S().Warn("[Auth] 认证已关闭，仅限本机使用")
	} else if cfg.Auth.PasswordHash == "" {
		logger.S().Warn("[Auth] 未配置 auth.password_hash，请先运行 hash-password")
	}

	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	router.InitRoutes(r, deps.Controllers, router.Options{
		AuthEnabled: cfg.Auth.Enabled,
		AssetsRoot:  filepath.Join(cfg.Content.ProjectRoot, "assets"),
	})

	startServer(r, cfg.Server.Port)
	return nil
}

func deployStatus(c *cli.Context) error {
	deploy, err := cliDeployService(c)
	if err != nil {
		return err
	}
	st := deploy.CheckStatus(c.Context)
	fmt.Println(st.Label)
	if st.Remote != "" {
		fmt.Println("Remote:", st.Remote)
	}
	return nil
}

func deployInit(c *cli.Context) error {
	deploy, err := cliDeployService(c)
	if err != nil {
		return err
	}
	res, err := deploy.Init(c.Context)
	printLines(res.Lines)
	fmt.Println(res.Message)
	return err
}

func deployPush(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	deploy, err := newCLIDeployService(cfg)
	if err != nil {
		return err
	}

	remote := c.String("remote")
	if remote == "" {
		remote = cfg.Deploy.Remote
	}

	res, err := deploy.PushAll(c.Context, remote)
	if res != nil {
		printLines(res.Lines)
		fmt.Println(res.Message)
		if res.Hint != "" {
			fmt.Println(res.Hint)
		}
	}
	return err
}

func hashPassword(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("用法: hash-password <password>", 1)
	}
	hash, err := service.HashPassword(c.Args().First())
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func cliDeployService(c *cli.Context) (*service.DeployService, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	return newCLIDeployService(cfg)
}

// newCLIDeployService 命令行同样写入部署记录
func newCLIDeployService(cfg *config.Config) (*service.DeployService, error) {
	db, err := database.InitDB(cfg.Database.Driver, cfg.Database.DSN, &model.DeployLog{})
	if err != nil {
		return nil, err
	}
	return initDeployService(cfg, repository.NewDeployLogRepository(db)), nil
}

func printLines(lines []string) {
	for _, l := range lines {
		fmt.Println(l)
	}
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		logger.S().Infof("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.S().Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.S().Info("正在关闭服务...")

	// 优雅关闭，最多等待 30 秒
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.S().Errorf("服务强制关闭: %v", err)
	}

	logger.S().Info("服务已退出")
}
