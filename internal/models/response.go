package models

type ResultResponse struct {
	Result string `json:"result"`
}

type ErrorResponse struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type APIKeyStatus struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
