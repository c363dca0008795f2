package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client uploads images to the external image-hosting service. The host
// exposes a single multipart-POST endpoint; the returned URL is what gets
// stored on the photo row.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// UploadResult is the host's answer for a stored image.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// New creates an image-host client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload pushes image bytes to the host under the given public ID.
func (c *Client) Upload(ctx context.Context, publicID, filename string, data []byte) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("key", c.apiKey); err != nil {
		return nil, fmt.Errorf("write key field: %w", err)
	}
	if err := mw.WriteField("public_id", publicID); err != nil {
		return nil, fmt.Errorf("write public_id field: %w", err)
	}
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("image host returned %d: %s", resp.StatusCode, msg)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if result.URL == "" {
		return nil, fmt.Errorf("image host returned no url")
	}
	return &result, nil
}
