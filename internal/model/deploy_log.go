package model

import (
	"time"

	"gorm.io/datatypes"
)

// DeployLog 部署面板每一次 git 调用的记录
type DeployLog struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	RunID     string         `gorm:"size:36;index;comment:同一次面板操作的批次ID" json:"run_id"`
	Action    string         `gorm:"size:32;comment:init/push/status/auto" json:"action"`
	Command   string         `gorm:"size:512" json:"command"`
	Args      datatypes.JSON `gorm:"comment:参数列表" json:"args"`
	OK        bool           `json:"ok"`
	Output    string         `gorm:"type:text" json:"output"`
}

func (DeployLog) TableName() string { return "deploy_logs" }
