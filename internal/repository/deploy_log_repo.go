package repository

import (
	"context"

	"gorm.io/gorm"

	"bitebabe_admin/internal/model"
)

// ==================== 接口定义 ====================

// DeployLogRepository 部署记录仓储
type DeployLogRepository interface {
	Create(ctx context.Context, log *model.DeployLog) error
	ListRecent(ctx context.Context, limit int) ([]model.DeployLog, error)
	ListByRun(ctx context.Context, runID string) ([]model.DeployLog, error)
	DeleteAll(ctx context.Context) error
}

// ==================== 仓储实现 ====================

type deployLogRepo struct {
	db *gorm.DB
}

// NewDeployLogRepository 创建部署记录仓储
func NewDeployLogRepository(db *gorm.DB) DeployLogRepository {
	return &deployLogRepo{db: db}
}

func (r *deployLogRepo) Create(ctx context.Context, log *model.DeployLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *deployLogRepo) ListRecent(ctx context.Context, limit int) ([]model.DeployLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []model.DeployLog
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func (r *deployLogRepo) ListByRun(ctx context.Context, runID string) ([]model.DeployLog, error) {
	var logs []model.DeployLog
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("id ASC").
		Find(&logs).Error
	return logs, err
}

func (r *deployLogRepo) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.DeployLog{}).Error
}
