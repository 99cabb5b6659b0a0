package predict

// FailureMessage 所有预测失败统一返回的错误信息
const FailureMessage = "Prediction failed"

// ErrorResponse 预测失败响应，不暴露具体原因
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse 状态检查响应
type StatusResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend,omitempty"`
}
