// Package delivery uploads finished artifacts to the single authorized
// Telegram recipient.
package delivery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client posts documents and photos to one preconfigured chat. The HTTP
// client carries a hard timeout so a slow or unreachable endpoint cannot
// block the run indefinitely.
type Client struct {
	token      string
	chatID     int64
	baseURL    string
	httpClient *http.Client
}

func NewClient(token string, chatID int64, timeout time.Duration) *Client {
	return &Client{
		token:      token,
		chatID:     chatID,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithBaseURL overrides the API host, used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// SendDocument uploads the file at path as a document attachment.
func (c *Client) SendDocument(ctx context.Context, path, caption string) error {
	return c.sendFile(ctx, "sendDocument", "document", path, caption)
}

// SendPhoto uploads the file at path as a photo attachment.
func (c *Client) SendPhoto(ctx context.Context, path, caption string) error {
	return c.sendFile(ctx, "sendPhoto", "photo", path, caption)
}

func (c *Client) sendFile(ctx context.Context, method, field, path, caption string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("chat_id", strconv.FormatInt(c.chatID, 10)); err != nil {
		return fmt.Errorf("write chat_id field: %w", err)
	}
	if caption != "" {
		if err := w.WriteField("caption", caption); err != nil {
			return fmt.Errorf("write caption field: %w", err)
		}
	}

	fw, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()
	if _, err := io.Copy(fw, file); err != nil {
		return fmt.Errorf("copy artifact into form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}
