package models

// Message is one entry of a session's chat history
type Message struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	IsUser    bool      `json:"is_user"`
	UsedRAG   bool      `json:"used_rag"`
	ModelUsed string    `json:"model_used"`
	Timestamp Timestamp `json:"timestamp"`
}

// Avatar returns the avatar the message is rendered with
func (m Message) Avatar() Avatar {
	return AvatarFor(m.IsUser, m.ModelUsed)
}
