package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/go-resty/resty/v2"

	"bitebabe_admin/pkg/logger"
	"bitebabe_admin/pkg/utils"
)

// AssetsRelDir 商品图片在站点中的相对目录，写入 JSON 的路径以此为前缀
const AssetsRelDir = "assets/products"

var (
	ErrUnsupportedImage = errors.New("仅支持 png/jpg/jpeg/webp 图片")
	ErrEmptySource      = errors.New("未指定图片来源")
)

var allowedImageExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// ==================== 镜像存储接口 ====================

// MirrorProvider 图片镜像上传 (CDN)，本地 assets 始终是主副本
type MirrorProvider interface {
	// Upload 上传文件，返回公开访问URL
	Upload(ctx context.Context, data []byte, filename string, contentType string) (url string, err error)
	// Delete 删除 Upload 时同名文件对应的镜像
	Delete(ctx context.Context, filename string) error
}

// MirrorConfig 镜像配置
type MirrorConfig struct {
	Provider      string // "" | "s3" | "cos" | "cloudinary"
	Bucket        string
	Region        string
	AccessKey     string
	SecretKey     string
	Endpoint      string // 自定义端点 (腾讯云COS等)
	CDNDomain     string // CDN域名 (可选)
	BasePath      string // 基础路径前缀
	CloudinaryURL string
}

// NewMirrorProvider 按配置创建镜像，Provider 为空时返回 nil
func NewMirrorProvider(cfg *MirrorConfig) (MirrorProvider, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.Provider {
	case "":
		return nil, nil
	case "s3":
		return NewS3Mirror(cfg)
	case "cos":
		return NewCOSMirror(cfg)
	case "cloudinary":
		return NewCloudinaryMirror(cfg)
	default:
		return nil, fmt.Errorf("不支持的存储提供者: %s", cfg.Provider)
	}
}

// ==================== StorageService ====================

// StorageService 商品图片导入
// 把图片复制到 <project_root>/assets/products/<原文件名>，同名覆盖
type StorageService struct {
	assetsDir string
	mirror    MirrorProvider
	http      *resty.Client
}

// NewStorageService 创建存储服务，mirror 可为 nil
func NewStorageService(assetsDir string, mirror MirrorProvider) *StorageService {
	return &StorageService{
		assetsDir: assetsDir,
		mirror:    mirror,
		http:      utils.NewHTTPClient(30 * time.Second),
	}
}

// ImportFile 复制本地图片到 assets 目录
// 成功返回相对路径；复制失败返回源文件绝对路径和错误
func (s *StorageService) ImportFile(ctx context.Context, src string) (image string, mirrorURL string, err error) {
	if strings.TrimSpace(src) == "" {
		return "", "", ErrEmptySource
	}
	absSrc, absErr := filepath.Abs(src)
	if absErr != nil {
		absSrc = src
	}

	filename := filepath.Base(absSrc)
	if !isAllowedImage(filename) {
		return "", "", ErrUnsupportedImage
	}

	dest := filepath.Join(s.assetsDir, filename)
	if err := copyFile(absSrc, dest); err != nil {
		logger.S().Errorf("[Storage] 复制图片失败 %s: %v", absSrc, err)
		return absSrc, "", fmt.Errorf("图片上传失败: %w", err)
	}

	rel := relImagePath(filename)
	logger.S().Infof("[Storage] 图片已复制到 %s", rel)
	return rel, s.mirrorFile(ctx, dest, filename), nil
}

// SaveUpload 保存浏览器上传的图片
func (s *StorageService) SaveUpload(ctx context.Context, filename string, r io.Reader) (string, string, error) {
	filename = safeBaseName(filename)
	if filename == "" {
		return "", "", ErrEmptySource
	}
	if !isAllowedImage(filename) {
		return "", "", ErrUnsupportedImage
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("读取上传文件失败: %w", err)
	}
	if err := s.writeAsset(filename, data); err != nil {
		return "", "", fmt.Errorf("图片上传失败: %w", err)
	}

	return relImagePath(filename), s.mirrorData(ctx, data, filename), nil
}

// ImportURL 下载网络图片到 assets 目录，文件名取 URL 路径最后一段
func (s *StorageService) ImportURL(ctx context.Context, sourceURL string) (string, string, error) {
	u, err := url.Parse(strings.TrimSpace(sourceURL))
	if err != nil || u.Host == "" {
		return "", "", fmt.Errorf("无效的图片地址: %s", sourceURL)
	}

	filename := safeBaseName(path.Base(u.Path))
	if filename == "" || !isAllowedImage(filename) {
		return "", "", ErrUnsupportedImage
	}

	resp, err := s.http.R().SetContext(ctx).Get(u.String())
	if err != nil {
		return "", "", fmt.Errorf("下载失败: %w", err)
	}
	if !resp.IsSuccess() {
		return "", "", fmt.Errorf("下载失败: HTTP %d", resp.StatusCode())
	}

	data := resp.Body()
	if err := s.writeAsset(filename, data); err != nil {
		return "", "", fmt.Errorf("图片上传失败: %w", err)
	}
	return relImagePath(filename), s.mirrorData(ctx, data, filename), nil
}

func (s *StorageService) writeAsset(filename string, data []byte) error {
	if err := os.MkdirAll(s.assetsDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.assetsDir, filename), data, 0o644)
}

// mirror 失败只记录日志，不影响本地结果
func (s *StorageService) mirrorFile(ctx context.Context, localPath, filename string) string {
	if s.mirror == nil {
		return ""
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		logger.S().Warnf("[Storage] 读取镜像源文件失败: %v", err)
		return ""
	}
	return s.mirrorData(ctx, data, filename)
}

func (s *StorageService) mirrorData(ctx context.Context, data []byte, filename string) string {
	if s.mirror == nil {
		return ""
	}
	u, err := s.mirror.Upload(ctx, data, filename, http.DetectContentType(data))
	if err != nil {
		logger.S().Warnf("[Storage] 镜像上传失败 %s: %v", filename, err)
		return ""
	}
	logger.S().Infof("[Storage] 镜像上传成功: %s", u)
	return u
}

// PruneMirror 删除保存前被引用、保存后不再被任何商品引用的镜像文件
// 本地 assets 中的文件保留；返回已删除的文件名
func (s *StorageService) PruneMirror(ctx context.Context, before, after []string) []string {
	if s == nil || s.mirror == nil {
		return nil
	}
	keep := make(map[string]bool, len(after))
	for _, image := range after {
		keep[image] = true
	}

	var removed []string
	for _, image := range before {
		if keep[image] || !strings.HasPrefix(image, AssetsRelDir+"/") {
			continue
		}
		keep[image] = true

		filename := path.Base(image)
		if err := s.mirror.Delete(ctx, filename); err != nil {
			logger.S().Warnf("[Storage] 删除镜像失败 %s: %v", filename, err)
			continue
		}
		removed = append(removed, filename)
	}
	if len(removed) > 0 {
		logger.S().Infof("[Storage] 已清理镜像 %v", removed)
	}
	return removed
}

// ==================== S3 实现 ====================

type S3Mirror struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
	basePath  string
}

func NewS3Mirror(cfg *MirrorConfig) (*S3Mirror, error) {
	awsCfg, err := loadAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %v", err)
	}

	return &S3Mirror{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cdnDomain: cfg.CDNDomain,
		basePath:  cfg.BasePath,
	}, nil
}

func (s *S3Mirror) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	key := mirrorKey(s.basePath, filename)
	if err := putObject(ctx, s.client, s.bucket, key, data, contentType); err != nil {
		return "", fmt.Errorf("上传S3失败: %v", err)
	}
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

func (s *S3Mirror) Delete(ctx context.Context, filename string) error {
	return deleteObject(ctx, s.client, s.bucket, mirrorKey(s.basePath, filename))
}

// ==================== 腾讯云COS 实现 ====================

type COSMirror struct {
	client    *s3.Client
	bucket    string
	region    string
	cdnDomain string
	basePath  string
}

func NewCOSMirror(cfg *MirrorConfig) (*COSMirror, error) {
	// COS兼容S3协议
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://cos.%s.myqcloud.com", cfg.Region)
	}

	awsCfg, err := loadAWSConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("加载COS配置失败: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &COSMirror{
		client:    client,
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		cdnDomain: cfg.CDNDomain,
		basePath:  cfg.BasePath,
	}, nil
}

func (s *COSMirror) Upload(ctx context.Context, data []byte, filename string, contentType string) (string, error) {
	key := mirrorKey(s.basePath, filename)
	if err := putObject(ctx, s.client, s.bucket, key, data, contentType); err != nil {
		return "", fmt.Errorf("上传COS失败: %v", err)
	}
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key), nil
	}
	return fmt.Sprintf("https://%s.cos.%s.myqcloud.com/%s", s.bucket, s.region, key), nil
}

func (s *COSMirror) Delete(ctx context.Context, filename string) error {
	return deleteObject(ctx, s.client, s.bucket, mirrorKey(s.basePath, filename))
}

// ==================== Cloudinary 实现 ====================

type CloudinaryMirror struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryMirror(cfg *MirrorConfig) (*CloudinaryMirror, error) {
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary 初始化失败: %v", err)
	}
	return &CloudinaryMirror{cld: cld, folder: cfg.BasePath}, nil
}

func (c *CloudinaryMirror) Upload(ctx context.Context, data []byte, filename string, _ string) (string, error) {
	res, err := c.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: publicIDOf(filename),
		Folder:   c.folder,
	})
	if err != nil {
		return "", fmt.Errorf("上传 cloudinary 失败: %v", err)
	}
	return res.SecureURL, nil
}

func (c *CloudinaryMirror) Delete(ctx context.Context, filename string) error {
	publicID := publicIDOf(filename)
	if c.folder != "" {
		publicID = strings.TrimSuffix(c.folder, "/") + "/" + publicID
	}
	res, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("删除 cloudinary 文件失败: %v", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("删除 cloudinary 文件失败: %s", res.Error.Message)
	}
	return nil
}

func publicIDOf(filename string) string {
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// ==================== 工具函数 ====================

func loadAWSConfig(cfg *MirrorConfig) (aws.Config, error) {
	return config.LoadDefaultConfig(context.Background(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
}

func putObject(ctx context.Context, client *s3.Client, bucket, key string, data []byte, contentType string) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	return err
}

func deleteObject(ctx context.Context, client *s3.Client, bucket, key string) error {
	_, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

// mirrorKey 镜像路径保留原文件名，与本地 assets 一致
func mirrorKey(basePath, filename string) string {
	key := AssetsRelDir + "/" + filename
	if basePath != "" {
		return strings.TrimSuffix(basePath, "/") + "/" + key
	}
	return key
}

func relImagePath(filename string) string {
	return AssetsRelDir + "/" + filename
}

func isAllowedImage(filename string) bool {
	return allowedImageExt[strings.ToLower(filepath.Ext(filename))]
}

// safeBaseName 去掉客户端传来的目录部分 (兼容 Windows 路径)
func safeBaseName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}

// copyFile 复制文件内容并保留修改时间
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s 是目录", src)
	}
	// 源文件已在 assets 目录中，O_TRUNC 会清空它
	if destInfo, err := os.Stat(dest); err == nil && os.SameFile(info, destInfo) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}
