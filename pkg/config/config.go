package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 管理后台全局配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Content  ContentConfig  `mapstructure:"content"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Deploy   DeployConfig   `mapstructure:"deploy"`
}

type ServerConfig struct {
	Port    string `mapstructure:"port"`
	GinMode string `mapstructure:"gin_mode"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"` // dev | prod
	Level string `mapstructure:"level"`
}

// ContentConfig 站点目录约定
type ContentConfig struct {
	ProjectRoot string `mapstructure:"project_root"`
	DataDir     string `mapstructure:"data_dir"` // 为空时为 <project_root>/data
}

// StorageConfig 商品图片镜像配置，Provider 为空时只落本地 assets
type StorageConfig struct {
	Provider      string `mapstructure:"provider"` // "" | s3 | cos | cloudinary
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Endpoint      string `mapstructure:"endpoint"`
	CDNDomain     string `mapstructure:"cdn_domain"`
	BasePath      string `mapstructure:"base_path"`
	CloudinaryURL string `mapstructure:"cloudinary_url"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite | postgres
	DSN    string `mapstructure:"dsn"`
}

type AuthConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Username        string        `mapstructure:"username"`
	PasswordHash    string        `mapstructure:"password_hash"`
	Secret          string        `mapstructure:"secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

type DeployConfig struct {
	AuthorName  string `mapstructure:"author_name"`
	AuthorEmail string `mapstructure:"author_email"`
	Remote      string `mapstructure:"remote"`
	AutoCron    string `mapstructure:"auto_cron"`
	GitBinary   string `mapstructure:"git_binary"`
}

// Load 读取配置：默认值 < 配置文件 < ADMIN_ 环境变量
// path 为空时在当前目录查找 config.yaml，找不到不报错
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ADMIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.normalize()
	return &cfg, nil
}

// Default 仅使用默认值 (测试 / CLI 辅助命令)
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.normalize()
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")

	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.level", "info")

	v.SetDefault("content.project_root", ".")
	v.SetDefault("content.data_dir", "")

	v.SetDefault("storage.provider", "")
	v.SetDefault("storage.base_path", "bitebabe")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "admin_panel.db")

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.username", "admin")
	v.SetDefault("auth.password_hash", "")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.access_token_ttl", 2*time.Hour)
	v.SetDefault("auth.refresh_token_ttl", 7*24*time.Hour)

	v.SetDefault("deploy.author_name", "aldilcv2")
	v.SetDefault("deploy.author_email", "aldilcv2@gmail.com")
	v.SetDefault("deploy.remote", "")
	v.SetDefault("deploy.auto_cron", "")
	v.SetDefault("deploy.git_binary", "git")
}

func (c *Config) normalize() {
	if c.Content.ProjectRoot == "" {
		c.Content.ProjectRoot = "."
	}
	if abs, err := filepath.Abs(c.Content.ProjectRoot); err == nil {
		c.Content.ProjectRoot = abs
	}
	if c.Content.DataDir == "" {
		c.Content.DataDir = filepath.Join(c.Content.ProjectRoot, "data")
	} else if !filepath.IsAbs(c.Content.DataDir) {
		c.Content.DataDir = filepath.Join(c.Content.ProjectRoot, c.Content.DataDir)
	}
}

// AssetsDir 商品图片目录 <project_root>/assets/products
func (c *Config) AssetsDir() string {
	return filepath.Join(c.Content.ProjectRoot, "assets", "products")
}

// ==================== 认证密钥 ====================

const minSecretLen = 16

// ErrInsecureSecret 签名密钥为公开的示例值或过短
var ErrInsecureSecret = errors.New("auth.secret 不安全，请设置至少 16 个字符的随机密钥")

// 曾作为默认值发布过的密钥
var publishedSecrets = map[string]bool{
	"bitebabe-admin-secret-change-in-production": true,
}

// EnsureAuthSecret 认证开启时检查签名密钥
// 未配置时生成进程内随机密钥并返回 true，重启后已签发的 Token 全部失效
func (c *Config) EnsureAuthSecret() (bool, error) {
	if !c.Auth.Enabled {
		return false, nil
	}
	secret := strings.TrimSpace(c.Auth.Secret)
	if secret == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return false, fmt.Errorf("生成随机密钥失败: %w", err)
		}
		c.Auth.Secret = hex.EncodeToString(buf)
		return true, nil
	}
	if publishedSecrets[secret] || len(secret) < minSecretLen {
		return false, ErrInsecureSecret
	}
	return false, nil
}
