package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wahlandcase/attuned.audit/internal/models"
)

// RequestIDHeader carries a per-call id that also appears in the logs
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a failed response is read for its message
const maxErrorBody = 64 << 10

// Client talks to the audit backend over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for baseURL (e.g. "http://localhost:8080/api").
// A zero timeout disables the transport deadline.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// FetchCommits lists one page of commits for a repository
func (c *Client) FetchCommits(ctx context.Context, repoURL string, page int) ([]models.CommitSummary, error) {
	query := url.Values{}
	query.Set("repoUrl", repoURL)
	query.Set("page", strconv.Itoa(page))

	var commits []models.CommitSummary
	if err := c.do(ctx, "list commits", http.MethodGet, "/audit/commits", query, nil, &commits); err != nil {
		return nil, err
	}
	return commits, nil
}

// Ingest submits a commit URL for analysis
func (c *Client) Ingest(ctx context.Context, req IngestRequest) (IngestResponse, error) {
	var resp IngestResponse
	err := c.do(ctx, "ingest commit", http.MethodPost, "/audit/ingest", nil, req, &resp)
	return resp, err
}

// Chat asks a question about a commit
func (c *Client) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	var resp ChatResponse
	err := c.do(ctx, "chat", http.MethodPost, "/audit/chat", nil, req, &resp)
	return resp, err
}

// GetNote fetches the stored notes for a commit section. A missing note is a 404 FetchError.
func (c *Client) GetNote(ctx context.Context, commitSHA string, section models.Section) (Note, error) {
	query := url.Values{}
	query.Set("section", string(section))

	var note Note
	err := c.do(ctx, "load notes", http.MethodGet, "/notes/"+url.PathEscape(commitSHA), query, nil, &note)
	return note, err
}

// SaveNote upserts a section's notes
func (c *Client) SaveNote(ctx context.Context, req SaveNoteRequest) error {
	return c.do(ctx, "save notes", http.MethodPost, "/notes", nil, req, nil)
}

// ListHistory fetches every saved audit
func (c *Client) ListHistory(ctx context.Context) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	if err := c.do(ctx, "list history", http.MethodGet, "/history", nil, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// SaveHistory creates or replaces a history record
func (c *Client) SaveHistory(ctx context.Context, req SaveHistoryRequest) (models.HistoryRecord, error) {
	var record models.HistoryRecord
	err := c.do(ctx, "save history", http.MethodPost, "/history", nil, req, &record)
	return record, err
}

// UpdateTag patches only the tag of an existing record. Fails if the record is absent.
func (c *Client) UpdateTag(ctx context.Context, commitSHA, tag string) (models.HistoryRecord, error) {
	var record models.HistoryRecord
	path := "/history/" + url.PathEscape(commitSHA) + "/tag"
	err := c.do(ctx, "update tag", http.MethodPatch, path, nil, tagRequest{Tag: tag}, &record)
	return record, err
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &models.FetchError{Op: op, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger := c.logger.With(
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn("backend request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return &models.FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	logger = logger.With(zap.Int("status", resp.StatusCode), zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetchError := &models.FetchError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
		if fetchError.NotFound() {
			logger.Debug("backend returned not found")
		} else {
			logger.Warn("backend returned error", zap.String("message", fetchError.Message))
		}
		return fetchError
	}

	logger.Debug("backend request completed")

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Warn("backend response not decodable", zap.Error(err))
		return &models.FetchError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// errorMessage pulls {"message": "..."} out of an error body, if present
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(data, &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Message)
}

var _ Backend = (*Client)(nil)
