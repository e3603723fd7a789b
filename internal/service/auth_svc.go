package service

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrAuthNotConfigured  = errors.New("未配置管理员密码")
	ErrInvalidToken       = errors.New("Token 无效")
)

// AuthService 单管理员账号认证
type AuthService struct {
	username     string
	passwordHash string
}

func NewAuthService(username, passwordHash string) *AuthService {
	return &AuthService{username: username, passwordHash: passwordHash}
}

// Login 校验密码并签发 Token 对
func (s *AuthService) Login(req *dto.LoginReq) (*dto.TokenResp, error) {
	if s.passwordHash == "" {
		return nil, ErrAuthNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.username)) != 1 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(s.username)
}

// Refresh 用 Refresh Token 换新的 Token 对
func (s *AuthService) Refresh(refreshToken string) (*dto.TokenResp, error) {
	claims, err := middleware.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" || claims.Username != s.username {
		return nil, ErrInvalidToken
	}
	return s.issue(claims.Username)
}

func (s *AuthService) issue(username string) (*dto.TokenResp, error) {
	access, refresh, err := middleware.GenerateTokenPair(username)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResp{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(middleware.GetJWTConfig().AccessTokenTTL.Seconds()),
		Username:     username,
	}, nil
}

// HashPassword 生成 bcrypt 哈希，供配置文件使用
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
