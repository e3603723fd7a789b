package dto

// DeployStatus 仓库状态
type DeployStatus struct {
	Initialized bool   `json:"initialized"`
	Remote      string `json:"remote"`
	Label       string `json:"label"`
}

// PushReq 推送请求
type PushReq struct {
	Remote string `json:"remote"`
}

// DeployResult 一次面板操作的结果
type DeployResult struct {
	RunID   string        `json:"run_id"`
	OK      bool          `json:"ok"`
	Message string        `json:"message"`
	Hint    string        `json:"hint,omitempty"`
	Failed  string        `json:"failed,omitempty"` // 失败的命令
	Lines   []string      `json:"lines"`
	Status  *DeployStatus `json:"status,omitempty"`
}
