package api

import (
	"context"

	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/models"
)

// ListModels fetches the models the backend can route to, with availability
func (c *Client) ListModels(ctx context.Context) ([]models.LLMModel, error) {
	var list []models.LLMModel
	if err := c.getJSON(ctx, models.EndpointModels, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SwitchModel binds modelName to the session. A nil error means the backend
// answered success=true; every other outcome is an error.
func (c *Client) SwitchModel(ctx context.Context, modelName string, sessionID int) (*models.SwitchResult, error) {
	resp, err := c.postJSON(ctx, models.EndpointSwitchModel, models.SwitchModelRequest{
		ModelName: modelName,
		SessionID: sessionID,
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError(models.EndpointSwitchModel, resp)
	}

	var result models.SwitchResult
	if err := decode(models.EndpointSwitchModel, resp.Body, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "model switch was not accepted"
		}
		return &result, apierrors.NewApplicationError(models.EndpointSwitchModel, msg)
	}

	return &result, nil
}
