// Package tika provides Apache Tika integration for text extraction.
//
// It recovers plain text from PDF and Word resumes via Tika's PUT /tika
// endpoint. Line structure is preserved: the downstream engine's
// first-line name strategy depends on the document's leading line.
package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/fairyhunter13/resume-field-extractor/pkg/textx"
)

// Client is a minimal Apache Tika HTTP client implementing
// domain.TextExtractor. See https://tika.apache.org/server/ for the API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	retryInitial    time.Duration
	retryMaxElapsed time.Duration
}

// New constructs a Tika client with default timeouts and retry policy.
func New(baseURL string) *Client {
	return NewWithRetry(baseURL, 500*time.Millisecond, 60*time.Second)
}

// NewWithRetry constructs a Tika client with an explicit retry policy.
func NewWithRetry(baseURL string, retryInitial, retryMaxElapsed time.Duration) *Client {
	return &Client{
		baseURL:         baseURL,
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		retryInitial:    retryInitial,
		retryMaxElapsed: retryMaxElapsed,
	}
}

// ExtractPath uploads the file at path to the Tika server and returns its
// plain text, sanitized but with newlines intact. Transient server errors
// are retried with exponential backoff.
func (c *Client) ExtractPath(ctx context.Context, fileName, path string) (string, error) {
	openPath, err := constrainPath(path)
	if err != nil {
		return "", err
	}
	bfile, err := os.ReadFile(openPath)
	if err != nil {
		return "", fmt.Errorf("op=tika.read: %w", err)
	}

	var result string
	operation := func() error {
		text, err := c.extractOnce(ctx, fileName, bfile)
		if err != nil {
			return err
		}
		result = text
		return nil
	}
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInitial
	bo.MaxElapsedTime = c.retryMaxElapsed
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("op=tika.extract: %w", err)
	}
	return result, nil
}

func (c *Client) extractOnce(ctx context.Context, fileName string, content []byte) (string, error) {
	u := c.baseURL
	if u == "" {
		u = "http://localhost:9998"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u+"/tika", bytes.NewReader(content))
	if err != nil {
		return "", backoff.Permanent(err)
	}
	req.Header.Set("Accept", "text/plain")
	if ct := contentTypeFromExt(filepath.Ext(fileName)); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 500:
		return "", fmt.Errorf("tika status %d", resp.StatusCode)
	default:
		// 4xx means this document will never extract; do not retry.
		return "", backoff.Permanent(fmt.Errorf("tika status %d", resp.StatusCode))
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return normalize(string(b)), nil
}

// normalize strips control characters and collapses spaces within each
// line while keeping the line breaks themselves.
func normalize(s string) string {
	s = textx.SanitizeText(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// constrainPath restricts reads to the temp dir or working directory,
// where uploaded files are spooled.
func constrainPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	tmp := filepath.Clean(os.TempDir())
	wd, _ := os.Getwd()
	wd = filepath.Clean(wd)
	for _, base := range []string{tmp, wd} {
		if abs == base || strings.HasPrefix(abs, base+string(os.PathSeparator)) {
			return abs, nil
		}
	}
	return "", fmt.Errorf("disallowed path: %s", abs)
}

func contentTypeFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".doc":
		return "application/msword"
	case ".txt":
		return "text/plain"
	default:
		if ext != "" {
			return mime.TypeByExtension(ext)
		}
	}
	return ""
}
