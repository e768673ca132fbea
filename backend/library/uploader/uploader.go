// Package uploader is the client-side batch uploader: a fixed pool of workers
// drains a queue of pending uploads so at most MaxConcurrentUploads requests
// are in flight at once.
package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// MaxConcurrentUploads bounds the number of simultaneous upload requests.
const MaxConcurrentUploads = 3

// UploadRequest is one pending file upload. Mimetype is optional; when empty
// it is derived from the file extension.
type UploadRequest struct {
	Name     string
	Mimetype string
	Content  io.Reader
}

// UploadedFile is the server's description of a stored upload.
type UploadedFile struct {
	OriginalName string `json:"originalname"`
	Filename     string `json:"filename"`
	Mimetype     string `json:"mimetype"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

// Result is the per-file outcome of a batch upload. Exactly one of File and
// Err is meaningful.
type Result struct {
	Name string
	File *UploadedFile
	Err  error
}

// Client uploads files to a drivebox server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// UploadAll uploads every request with at most MaxConcurrentUploads in flight
// and returns one Result per request. A failed upload never cancels or delays
// its siblings; results arrive in completion order, not input order.
func (c *Client) UploadAll(ctx context.Context, requests []UploadRequest, parentID *int64) []Result {
	tasks := make(chan UploadRequest)
	results := make(chan Result, len(requests))

	var wg sync.WaitGroup
	for i := 0; i < MaxConcurrentUploads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each receive claims exactly one queued task; the worker
			// finishes it before claiming the next.
			for req := range tasks {
				file, err := c.upload(ctx, req, parentID)
				results <- Result{Name: req.Name, File: file, Err: err}
			}
		}()
	}

	for _, req := range requests {
		tasks <- req
	}
	close(tasks)
	wg.Wait()
	close(results)

	collected := make([]Result, 0, len(requests))
	for result := range results {
		collected = append(collected, result)
	}
	return collected
}

func (c *Client) upload(ctx context.Context, req UploadRequest, parentID *int64) (*UploadedFile, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if parentID != nil {
		if err := writer.WriteField("parentId", strconv.FormatInt(*parentID, 10)); err != nil {
			return nil, fmt.Errorf("write parentId field: %w", err)
		}
	}

	part, err := writer.CreatePart(filePartHeader(req))
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return nil, fmt.Errorf("copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/files/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", req.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return nil, fmt.Errorf("upload %s: %s", req.Name, apiErr.Message)
	}

	var payload struct {
		Message string        `json:"message"`
		File    *UploadedFile `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return payload.File, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(req UploadRequest) textproto.MIMEHeader {
	mimetype := req.Mimetype
	if mimetype == "" {
		mimetype = mime.TypeByExtension(filepath.Ext(req.Name))
	}
	if mimetype == "" {
		mimetype = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(req.Name)))
	h.Set("Content-Type", mimetype)
	return h
}
