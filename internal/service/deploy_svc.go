package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"bitebabe_admin/internal/api/dto"
	"bitebabe_admin/internal/model"
	"bitebabe_admin/internal/repository"
	"bitebabe_admin/pkg/logger"
	"bitebabe_admin/pkg/vcs"
)

const (
	initialCommitMessage = "Initial commit"
	autoCommitMessage    = "Auto-update via Admin Panel"
	maxPaneLines         = 2000

	authHint = "GitHub requires a Personal Access Token (PAT) for HTTPS. " +
		"Or run 'git config --global credential.helper store' in terminal to save login."
)

// 部署记录中的操作类型
const (
	actionStatus = "status"
	actionInit   = "init"
	actionPush   = "push"
	actionAuto   = "auto"
)

var ErrMissingRemote = errors.New("请填写有效的远程仓库地址")

// DeployError git 操作失败，Hint 为可选的处理建议
type DeployError struct {
	Message string
	Hint    string
}

func (e *DeployError) Error() string { return e.Message }

// DeployOptions 部署配置
type DeployOptions struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// DeployService 部署面板
// 同一时间只执行一个操作序列，每次 git 调用都写入日志面板和部署记录
type DeployService struct {
	runner  vcs.Runner
	logRepo repository.DeployLogRepository
	opts    DeployOptions

	opMu sync.Mutex

	paneMu sync.Mutex
	pane   []string
}

// NewDeployService logRepo 可为 nil (不落库)
func NewDeployService(runner vcs.Runner, logRepo repository.DeployLogRepository, opts DeployOptions) *DeployService {
	return &DeployService{
		runner:  runner,
		logRepo: logRepo,
		opts:    opts,
	}
}

// ==================== 日志面板 ====================

// Logs 面板全部内容
func (s *DeployService) Logs() []string {
	s.paneMu.Lock()
	defer s.paneMu.Unlock()
	return append([]string{}, s.pane...)
}

func (s *DeployService) ClearLogs() {
	s.paneMu.Lock()
	s.pane = nil
	s.paneMu.Unlock()
}

// History 已落库的调用记录，最新在前
func (s *DeployService) History(ctx context.Context, limit int) ([]model.DeployLog, error) {
	if s.logRepo == nil {
		return []model.DeployLog{}, nil
	}
	return s.logRepo.ListRecent(ctx, limit)
}

// RunHistory 单次面板操作的全部调用，按执行顺序
func (s *DeployService) RunHistory(ctx context.Context, runID string) ([]model.DeployLog, error) {
	if s.logRepo == nil {
		return []model.DeployLog{}, nil
	}
	return s.logRepo.ListByRun(ctx, runID)
}

// ClearHistory 清空部署记录
func (s *DeployService) ClearHistory(ctx context.Context) error {
	if s.logRepo == nil {
		return nil
	}
	return s.logRepo.DeleteAll(ctx)
}

// ==================== 操作 ====================

// CheckStatus 是否已初始化，已初始化时读取 origin 地址
func (s *DeployService) CheckStatus(ctx context.Context) *dto.DeployStatus {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	run := s.newRun(actionStatus)
	return run.status(ctx)
}

// Init 初始化仓库: init / add / 首次提交 / 主分支改名
// 某一步失败时仍执行后续步骤和状态检查，结果标记为失败
func (s *DeployService) Init(ctx context.Context) (*dto.DeployResult, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	run := s.newRun(actionInit)
	g := run.git

	run.step(g.Init(ctx))
	run.step(g.AddAll(ctx))
	run.step(g.Commit(ctx, initialCommitMessage))
	run.step(g.RenameBranch(ctx, vcs.DefaultBranch))

	status := run.status(ctx)
	result := &dto.DeployResult{
		RunID:   run.id,
		OK:      status.Initialized && len(run.failed) == 0,
		Message: status.Label,
		Lines:   run.lines,
		Status:  status,
	}
	if len(run.failed) == 0 {
		return result, nil
	}

	result.Failed = run.failed[0]
	result.Message = "Failed to initialize repository: " + result.Failed
	logger.S().Warnf("[Deploy] 初始化失败 run=%s cmd=%s", run.id, result.Failed)
	return result, &DeployError{Message: result.Message}
}

// PushAll 配置远程、提交改动并推送
// 工作区干净时跳过 commit，但仍然 push
func (s *DeployService) PushAll(ctx context.Context, remote string) (*dto.DeployResult, error) {
	return s.push(ctx, remote, actionPush)
}

// ScheduledPush 与 PushAll 相同，部署记录标记为定时任务触发
func (s *DeployService) ScheduledPush(ctx context.Context, remote string) (*dto.DeployResult, error) {
	return s.push(ctx, remote, actionAuto)
}

func (s *DeployService) push(ctx context.Context, remote, action string) (*dto.DeployResult, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return nil, ErrMissingRemote
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	run := s.newRun(action)
	g := run.git

	current := g.RemoteURL(ctx)
	if !current.OK {
		g.AddRemote(ctx, remote)
	} else if strings.TrimSpace(current.Stdout) != remote {
		g.SetRemote(ctx, remote)
	}

	run.log("\n--- Starting Automatic Backup & Push ---")

	g.ConfigUser(ctx, s.opts.AuthorName, s.opts.AuthorEmail)
	g.AddAll(ctx)

	status := g.StatusPorcelain(ctx)
	if status.OK && strings.TrimSpace(status.Stdout) == "" {
		run.log("Nothing to commit, working tree clean.")
	} else {
		g.Commit(ctx, autoCommitMessage)
	}

	push := g.Push(ctx)
	result := &dto.DeployResult{RunID: run.id, OK: push.OK, Lines: run.lines}
	if push.OK {
		result.Message = "Code successfully pushed to GitHub!"
		logger.S().Infof("[Deploy] 推送成功 run=%s", run.id)
		return result, nil
	}

	result.Message = "Failed to push. Check the log for details."
	result.Failed = push.Command()
	result.Hint = pushHint(push.Output())
	logger.S().Warnf("[Deploy] 推送失败 run=%s", run.id)
	return result, &DeployError{Message: result.Message, Hint: result.Hint}
}

func pushHint(output string) string {
	out := strings.ToLower(output)
	if strings.Contains(out, "terminal prompts disabled") || strings.Contains(out, "authentication failed") {
		return authHint
	}
	return ""
}

// ==================== 单次操作 ====================

// deployRun 一次面板操作，包装 runner 以记录每次调用
type deployRun struct {
	svc    *DeployService
	id     string
	action string
	git    *vcs.Git
	lines  []string
	failed []string
}

func (s *DeployService) newRun(action string) *deployRun {
	run := &deployRun{svc: s, id: uuid.NewString(), action: action, lines: []string{}}
	run.git = vcs.NewGit(run, s.opts.Dir)
	return run
}

func (r *deployRun) status(ctx context.Context) *dto.DeployStatus {
	if !r.git.IsRepo() {
		return &dto.DeployStatus{Label: "Git Status: Not Initialized"}
	}
	st := &dto.DeployStatus{Initialized: true, Label: "Git Status: Active Repo (Initialized)"}
	if res := r.git.RemoteURL(ctx); res.OK {
		st.Remote = strings.TrimSpace(res.Stdout)
	}
	return st
}

// step 记录必须成功的步骤，失败的命令写入 failed
func (r *deployRun) step(res vcs.Result) {
	if !res.OK {
		r.failed = append(r.failed, res.Command())
	}
}

// Run 实现 vcs.Runner
func (r *deployRun) Run(ctx context.Context, args ...string) vcs.Result {
	res := r.svc.runner.Run(ctx, args...)
	res.Args = args

	r.log("$ " + res.Command())
	if res.OK {
		if res.Stdout != "" {
			r.log(res.Stdout)
		}
		if res.Stderr != "" {
			r.log("[INFO] " + res.Stderr)
		}
	} else {
		r.log("Error: " + res.Output())
	}

	r.persist(ctx, res)
	return res
}

func (r *deployRun) log(line string) {
	r.lines = append(r.lines, line)

	s := r.svc
	s.paneMu.Lock()
	s.pane = append(s.pane, line)
	if len(s.pane) > maxPaneLines {
		s.pane = s.pane[len(s.pane)-maxPaneLines:]
	}
	s.paneMu.Unlock()
}

// persist 落库失败只记录日志
func (r *deployRun) persist(ctx context.Context, res vcs.Result) {
	if r.svc.logRepo == nil {
		return
	}
	args, _ := json.Marshal(res.Args)
	output := res.Stdout
	if res.Stderr != "" {
		output += res.Stderr
	}
	if res.Err != nil {
		output += res.Err.Error()
	}

	entry := &model.DeployLog{
		RunID:   r.id,
		Action:  r.action,
		Command: res.Command(),
		Args:    datatypes.JSON(args),
		OK:      res.OK,
		Output:  output,
	}
	if err := r.svc.logRepo.Create(context.WithoutCancel(ctx), entry); err != nil {
		logger.S().Warnf("[Deploy] 写入部署记录失败: %v", err)
	}
}
