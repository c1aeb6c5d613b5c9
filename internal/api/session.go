package api

import (
	"context"

	"github.com/ragchat/ragchat/internal/models"
)

// GetMessages fetches the full chat history of a session in server order
func (c *Client) GetMessages(ctx context.Context, sessionID int) ([]models.Message, error) {
	var messages []models.Message
	if err := c.getJSON(ctx, models.SessionMessagesPath(sessionID), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetSessionInfo fetches a session's metadata, including its bound model
func (c *Client) GetSessionInfo(ctx context.Context, sessionID int) (*models.Session, error) {
	var session models.Session
	if err := c.getJSON(ctx, models.SessionInfoPath(sessionID), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CurrentSession fetches the session the backend considers active
func (c *Client) CurrentSession(ctx context.Context) (*models.Session, error) {
	var session models.Session
	if err := c.getJSON(ctx, models.EndpointCurrentSession, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
