package repository

import (
	"context"
	"testing"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bitebabe_admin/internal/model"

	"github.com/stretchr/testify/assert"
)

func setupDeployLogTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	if err := db.AutoMigrate(&model.DeployLog{}); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	// :memory: 每个连接是独立的库
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	return db
}

func TestDeployLogRepo_CreateAndList(t *testing.T) {
	repo := NewDeployLogRepository(setupDeployLogTestDB(t))
	ctx := context.Background()

	rows := []model.DeployLog{
		{RunID: "run-1", Action: "init", Command: "git init", Args: datatypes.JSON(`["init"]`), OK: true},
		{RunID: "run-1", Action: "init", Command: "git add .", Args: datatypes.JSON(`["add","."]`), OK: true},
		{RunID: "run-2", Action: "push", Command: "git push -u origin main", Args: datatypes.JSON(`["push","-u","origin","main"]`), OK: false, Output: "fatal"},
	}
	for i := range rows {
		assert.NoError(t, repo.Create(ctx, &rows[i]))
	}

	recent, err := repo.ListRecent(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.Equal(t, "run-2", recent[0].RunID)
	assert.False(t, recent[0].OK)

	run, err := repo.ListByRun(ctx, "run-1")
	assert.NoError(t, err)
	assert.Len(t, run, 2)
	assert.Equal(t, "git init", run[0].Command)

	assert.NoError(t, repo.DeleteAll(ctx))
	recent, _ = repo.ListRecent(ctx, 0)
	assert.Empty(t, recent)
}
