package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"

	"tripdesk.io/internal/agency"
)

// UploadFile is one file selected for upload.
type UploadFile struct {
	Name    string
	Content []byte
}

// UploadSingle uploads one file tagged with a category and an optional
// linked parent record.
func (c *Client) UploadSingle(ctx context.Context, file UploadFile, category, linkedModel, linkedID string) (agency.Document, error) {
	raw, err := c.upload(ctx, "/uploads/single", []UploadFile{file}, "file", category, linkedModel, linkedID)
	if err != nil {
		return agency.Document{}, err
	}
	var doc agency.Document
	if err := decode(unwrapObject(raw), &doc); err != nil {
		return agency.Document{}, err
	}
	return doc, nil
}

// UploadMultiple uploads several files in one multipart request.
func (c *Client) UploadMultiple(ctx context.Context, files []UploadFile, category, linkedModel, linkedID string) ([]agency.Document, error) {
	raw, err := c.upload(ctx, "/uploads/multiple", files, "files", category, linkedModel, linkedID)
	if err != nil {
		return nil, err
	}
	items, err := unwrapList(raw, "documents")
	if err != nil {
		return nil, err
	}
	var docs []agency.Document
	if err := decode(items, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListAttachments returns the documents linked to a parent record.
func (c *Client) ListAttachments(ctx context.Context, model, id string) ([]agency.Document, error) {
	raw, err := c.get(ctx, fmt.Sprintf("/uploads/%s/%s", url.PathEscape(model), url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	items, err := unwrapList(raw, "documents")
	if err != nil {
		return nil, err
	}
	var docs []agency.Document
	if err := decode(items, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// DeleteAttachment removes an uploaded document.
func (c *Client) DeleteAttachment(ctx context.Context, id string) error {
	_, err := c.send(ctx, "DELETE", "/uploads/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) upload(ctx context.Context, path string, files []UploadFile, fieldName, category, linkedModel, linkedID string) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		part, err := writer.CreateFormFile(fieldName, file.Name)
		if err != nil {
			return nil, fmt.Errorf("build multipart form: %w", err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, fmt.Errorf("write file part: %w", err)
		}
	}
	if err := writer.WriteField("category", category); err != nil {
		return nil, fmt.Errorf("write category field: %w", err)
	}
	if linkedModel != "" && linkedID != "" {
		if err := writer.WriteField("linkedModel", linkedModel); err != nil {
			return nil, fmt.Errorf("write linkedModel field: %w", err)
		}
		if err := writer.WriteField("linkedId", linkedID); err != nil {
			return nil, fmt.Errorf("write linkedId field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.roundTrip(req)
}
