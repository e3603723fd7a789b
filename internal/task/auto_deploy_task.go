package task

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/pkg/logger"
)

// Pusher 执行一次定时备份推送
type Pusher interface {
	ScheduledPush(ctx context.Context, remote string) (*dto.DeployResult, error)
}

// ==================== AutoDeployTask 定时推送任务 ====================

// AutoDeployTask 按 cron 表达式定时执行备份推送
type AutoDeployTask struct {
	pusher  Pusher
	remote  string
	spec    string
	timeout time.Duration
	cron    *cron.Cron

	running atomic.Bool
}

// NewAutoDeployTask spec 为带秒的 cron 表达式，例如 "0 0 3 * * *"
func NewAutoDeployTask(pusher Pusher, spec, remote string) *AutoDeployTask {
	return &AutoDeployTask{
		pusher:  pusher,
		remote:  strings.TrimSpace(remote),
		spec:    strings.TrimSpace(spec),
		timeout: 10 * time.Minute,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Enabled 表达式和远程地址都配置时才启用
func (t *AutoDeployTask) Enabled() bool {
	return t.spec != "" && t.remote != ""
}

// Start 启动定时任务
func (t *AutoDeployTask) Start() error {
	if !t.Enabled() {
		logger.S().Info("[AutoDeployTask] 未配置 cron 或远程地址，跳过")
		return nil
	}

	if _, err := t.cron.AddFunc(t.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		defer cancel()
		t.execute(ctx)
	}); err != nil {
		return fmt.Errorf("无效的 cron 表达式 %q: %w", t.spec, err)
	}

	t.cron.Start()
	logger.S().Infof("[AutoDeployTask] 定时推送已启动 (%s)", t.spec)
	return nil
}

// Stop 停止任务，等待执行中的推送结束
func (t *AutoDeployTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	logger.S().Info("[AutoDeployTask] 已停止")
}

// execute 执行一次推送，上一次未结束时跳过
func (t *AutoDeployTask) execute(ctx context.Context) {
	if !t.running.CompareAndSwap(false, true) {
		logger.S().Warn("[AutoDeployTask] 上一次推送仍在执行，跳过")
		return
	}
	defer t.running.Store(false)

	start := time.Now()
	result, err := t.pusher.ScheduledPush(ctx, t.remote)
	if err != nil {
		hint := ""
		if result != nil {
			hint = result.Hint
		}
		logger.S().Errorf("[AutoDeployTask] 推送失败: %v %s", err, hint)
		return
	}
	logger.S().Infof("[AutoDeployTask] 推送完成 run=%s 耗时=%v", result.RunID, time.Since(start))
}
