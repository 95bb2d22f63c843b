package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL     = "http://127.0.0.1:8000"
	DefaultPredictPath = "/predict_cluster"

	// maxResponseBytes bounds how much of a reply is read.
	maxResponseBytes = 1 << 20
)

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL     string
	PredictPath string
	// Timeout bounds each request. Zero leaves the transport default in place.
	Timeout time.Duration
	// HTTPClient overrides the HTTP client; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// DefaultClientConfig returns the config for the local service.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:     DefaultBaseURL,
		PredictPath: DefaultPredictPath,
	}
}

// Client talks to the classification service.
type Client struct {
	baseURL    string
	predictURL string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for the local service with default settings.
func NewClient() *Client {
	return NewClientWithConfig(DefaultClientConfig())
}

// NewClientWithConfig creates a client with custom config.
func NewClientWithConfig(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.PredictPath == "" {
		cfg.PredictPath = DefaultPredictPath
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		baseURL:    base,
		predictURL: base + "/" + strings.TrimLeft(cfg.PredictPath, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// PredictURL returns the address predictions are posted to.
func (c *Client) PredictURL() string {
	return c.predictURL
}

// Predict sends one prediction request and waits for the reply. It resolves
// exactly once: with a result, or with a *ServiceError.
func (c *Client) Predict(ctx context.Context, req PredictionRequest) (*PredictionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var reply struct {
		ClusterID          json.RawMessage `json:"cluster_id"`
		ClusterDescription *string         `json:"cluster_description"`
	}
	if err := c.do(ctx, http.MethodPost, c.predictURL, body, &reply); err != nil {
		return nil, err
	}
	if len(reply.ClusterID) == 0 || reply.ClusterDescription == nil {
		return nil, &ServiceError{Kind: KindDecode, StatusCode: http.StatusOK, Err: errors.New("response is missing cluster_id or cluster_description")}
	}

	return &PredictionResult{
		ClusterID:          reply.ClusterID,
		ClusterDescription: *reply.ClusterDescription,
	}, nil
}

// Health calls GET / on the service.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ClusterInfo calls GET /cluster_info on the service.
func (c *Client) ClusterInfo(ctx context.Context) (ClusterInfo, error) {
	info := ClusterInfo{}
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/cluster_info", nil, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// DataSummary calls GET /data_summary on the service.
func (c *Client) DataSummary(ctx context.Context) (*DataSummary, error) {
	var s DataSummary
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/data_summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// do performs one request and decodes a 2xx JSON reply into out.
func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("url", url),
	)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return &ServiceError{Kind: KindTransport, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	log.Debug("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("Request failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return &ServiceError{Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn("Failed to read response", zap.Error(err))
		return &ServiceError{Kind: KindTransport, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("Service returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(data, 512)),
		)
		return &ServiceError{Kind: KindStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("status %d: %s", resp.StatusCode, truncate(data, 512))}
	}

	if err := json.Unmarshal(data, out); err != nil {
		log.Warn("Malformed response body", zap.Error(err))
		return &ServiceError{Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}

	log.Debug("Request completed", zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
