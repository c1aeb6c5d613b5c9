package models

// ChatRequest is the body of a chat round trip
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID int    `json:"session_id"`
}

// ChatReply is the backend's answer to a chat request. Error is set
// instead of Response when the backend rejected the message.
type ChatReply struct {
	Response  string `json:"response"`
	UsedRAG   bool   `json:"used_rag"`
	ModelUsed string `json:"model_used"`
	Error     string `json:"error,omitempty"`
}

// Failed reports whether the reply carries an error field
func (r ChatReply) Failed() bool {
	return r.Error != ""
}

// SwitchModelRequest binds a model to a session
type SwitchModelRequest struct {
	ModelName string `json:"model_name"`
	SessionID int    `json:"session_id"`
}

// SwitchResult is the backend's answer to a model switch
type SwitchResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	SessionID int    `json:"session_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// UploadResult is returned with HTTP 202 once an upload is accepted
type UploadResult struct {
	DocID    int    `json:"doc_id"`
	Filename string `json:"filename"`
	Status   string `json:"status"`
}
