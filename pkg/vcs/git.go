package vcs

import (
	"context"
	"os"
	"path/filepath"
)

const (
	RemoteName    = "origin"
	DefaultBranch = "main"
)

// Git 部署面板需要的最小 git 能力集
// 每个方法对应一条固定参数的 git 命令
type Git struct {
	runner Runner
	dir    string
}

func NewGit(runner Runner, dir string) *Git {
	return &Git{runner: runner, dir: dir}
}

// IsRepo 工作目录下是否已有 .git
func (g *Git) IsRepo() bool {
	_, err := os.Stat(filepath.Join(g.dir, ".git"))
	return err == nil
}

func (g *Git) Init(ctx context.Context) Result {
	return g.runner.Run(ctx, "init")
}

func (g *Git) AddAll(ctx context.Context) Result {
	return g.runner.Run(ctx, "add", ".")
}

func (g *Git) Commit(ctx context.Context, message string) Result {
	return g.runner.Run(ctx, "commit", "-m", message)
}

func (g *Git) RenameBranch(ctx context.Context, branch string) Result {
	return g.runner.Run(ctx, "branch", "-M", branch)
}

func (g *Git) RemoteURL(ctx context.Context) Result {
	return g.runner.Run(ctx, "remote", "get-url", RemoteName)
}

func (g *Git) AddRemote(ctx context.Context, url string) Result {
	return g.runner.Run(ctx, "remote", "add", RemoteName, url)
}

func (g *Git) SetRemote(ctx context.Context, url string) Result {
	return g.runner.Run(ctx, "remote", "set-url", RemoteName, url)
}

func (g *Git) ConfigUser(ctx context.Context, name, email string) []Result {
	return []Result{
		g.runner.Run(ctx, "config", "user.name", name),
		g.runner.Run(ctx, "config", "user.email", email),
	}
}

func (g *Git) StatusPorcelain(ctx context.Context) Result {
	return g.runner.Run(ctx, "status", "--porcelain")
}

func (g *Git) Push(ctx context.Context) Result {
	return g.runner.Run(ctx, "push", "-u", RemoteName, DefaultBranch)
}
