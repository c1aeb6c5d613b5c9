package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"

	http "github.com/bogdanfinn/fhttp"

	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/models"
)

// ListDocuments fetches every uploaded document, newest first
func (c *Client) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := c.getJSON(ctx, models.EndpointDocuments, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteDocument removes a document. The reply body is ignored.
func (c *Client) DeleteDocument(ctx context.Context, docID int) error {
	path := models.DocumentPath(docID)
	resp, err := c.do(ctx, http.MethodDelete, path, nil, "")
	if err != nil {
		return err
	}
	if !resp.ok() {
		return statusError(path, resp)
	}
	return nil
}

// UploadDocument preflights filePath and posts it as multipart field "file".
// Only HTTP 202 counts as accepted; any other status becomes an
// *errors.UploadError carrying the backend's error text or "Unknown error".
func (c *Client) UploadDocument(ctx context.Context, filePath string) (*models.UploadResult, error) {
	candidate, err := Preflight(filePath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(candidate.Path)
	if err != nil {
		return nil, apierrors.NewUploadError(candidate.FileName, 0, fmt.Sprintf("cannot read file: %v", err))
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, candidate.FileName))
	header.Set("Content-Type", candidate.MIMEType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, models.EndpointUpload, &body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusAccepted {
		msg := errorField(resp.Body)
		if msg == "" {
			msg = "Unknown error"
		}
		return nil, apierrors.NewUploadError(candidate.FileName, resp.StatusCode, msg)
	}

	var result models.UploadResult
	if err := decode(models.EndpointUpload, resp.Body, &result); err != nil {
		return nil, err
	}
	if result.Filename == "" {
		result.Filename = candidate.FileName
	}
	return &result, nil
}
