package vcs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Result 单次 git 调用结果
type Result struct {
	Args   []string
	OK     bool
	Stdout string
	Stderr string
	Err    error // 进程无法启动等非退出码错误
}

// Output 失败时优先返回 stderr，与成功时的 stdout 对应
func (r Result) Output() string {
	if r.OK {
		return r.Stdout
	}
	if r.Stderr != "" {
		return r.Stderr
	}
	if r.Stdout != "" {
		return r.Stdout
	}
	if r.Err != nil {
		return r.Err.Error()
	}
	return ""
}

// Command 命令行展示形式
func (r Result) Command() string {
	return "git " + strings.Join(r.Args, " ")
}

// Runner 执行一次 git 命令
type Runner interface {
	Run(ctx context.Context, args ...string) Result
}

// ExecRunner 基于 os/exec 的实现
type ExecRunner struct {
	Binary string
	Dir    string
}

// NewExecRunner 创建执行器，binary 为空时使用 PATH 中的 git
func NewExecRunner(binary, dir string) *ExecRunner {
	if binary == "" {
		binary = "git"
	}
	return &ExecRunner{Binary: binary, Dir: dir}
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) Result {
	cmd := exec.CommandContext(ctx, r.Binary, args...)
	cmd.Dir = r.Dir
	// 禁止 git 在终端等待输入凭证
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Result{Args: args}
	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			res.Err = err
		}
		return res
	}
	res.OK = true
	return res
}
