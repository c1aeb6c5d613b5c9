package models

// Session identifies a chat conversation and the model bound to it
type Session struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	ModelUsed string    `json:"model_used"`
	CreatedAt Timestamp `json:"created_at"`
}
