// Package models contains data types and constants for the RAG chat backend API.
package models

import "fmt"

// Endpoint paths relative to the configured server URL
const (
	EndpointModels         = "/api/models"
	EndpointSwitchModel    = "/api/switch-model"
	EndpointChat           = "/api/chat"
	EndpointUpload         = "/api/upload"
	EndpointDocuments      = "/api/documents"
	EndpointCurrentSession = "/api/current-session"
	EndpointStats          = "/api/stats"
)

// Known backend model identifiers
const (
	ModelYandexGPT = "yandex_gpt"
	ModelLocalLLM  = "local_llm"
)

// DefaultServerURL is where the backend listens in a default install
const DefaultServerURL = "http://127.0.0.1:5000"

// SessionMessagesPath returns the chat history path for a session
func SessionMessagesPath(sessionID int) string {
	return fmt.Sprintf("/api/session/%d/messages", sessionID)
}

// SessionInfoPath returns the session info path for a session
func SessionInfoPath(sessionID int) string {
	return fmt.Sprintf("/api/session/%d/info", sessionID)
}

// DocumentPath returns the path addressing a single document
func DocumentPath(docID int) string {
	return fmt.Sprintf("%s/%d", EndpointDocuments, docID)
}

// DefaultHeaders returns the headers sent with every backend request
func DefaultHeaders(version string) map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "ragchat/" + version,
	}
}
