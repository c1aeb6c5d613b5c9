package api

import (
	"context"

	"github.com/ragchat/ragchat/internal/models"
)

// SendChat posts one user message and returns the assistant's reply.
//
// The backend reports application failures as {"error": ...} with a 4xx/5xx
// status; those come back as a reply with Error set and a nil error, so the
// caller can show the backend's text. A body that is not the expected JSON
// is a parse error.
func (c *Client) SendChat(ctx context.Context, message string, sessionID int) (*models.ChatReply, error) {
	resp, err := c.postJSON(ctx, models.EndpointChat, models.ChatRequest{
		Message:   message,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}

	var reply models.ChatReply
	if err := decode(models.EndpointChat, resp.Body, &reply); err != nil {
		if !resp.ok() {
			return nil, statusError(models.EndpointChat, resp)
		}
		return nil, err
	}

	if !resp.ok() && reply.Error == "" {
		return nil, statusError(models.EndpointChat, resp)
	}
	return &reply, nil
}
