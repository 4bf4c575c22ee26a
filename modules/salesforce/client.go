package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nh916/salesforce-healthcare-mcp/common"
	"github.com/nh916/salesforce-healthcare-mcp/common/model"
)

// Client defines the lower-level HTTP operations against the Salesforce
// REST API: building authenticated requests, invalid-session recovery,
// and error classification.
type Client interface {
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
	Post(ctx context.Context, path string, body interface{}) ([]byte, error)
	Patch(ctx context.Context, path string, body interface{}) ([]byte, error)
	Delete(ctx context.Context, path string) error
	DoRequest(ctx context.Context, method, path string, params url.Values, body []byte) ([]byte, error)
}

type restClient struct {
	apiVersion string
	tokens     TokenProvider
	httpClient common.HttpClient
	logger     *zap.Logger
}

// NewClient creates a Client that authenticates every call with a token
// from the given provider.
func NewClient(apiVersion string, tokens TokenProvider, httpClient common.HttpClient, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &restClient{
		apiVersion: apiVersion,
		tokens:     tokens,
		httpClient: httpClient,
		logger:     logger,
	}
}

// ---------------------------------------------------
// Implementation of Client interface
// ---------------------------------------------------

func (c *restClient) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.DoRequest(ctx, http.MethodGet, path, params, nil)
}

func (c *restClient) Post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.DoRequest(ctx, http.MethodPost, path, nil, data)
}

func (c *restClient) Patch(ctx context.Context, path string, body interface{}) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return c.DoRequest(ctx, http.MethodPatch, path, nil, data)
}

func (c *restClient) Delete(ctx context.Context, path string) error {
	_, err := c.DoRequest(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// DoRequest executes one authenticated call against the record API.
//
// The attempt sequence is fixed: send with the current token; if the
// response carries the invalid-session code, refresh once and resend
// once. A second invalid-session response is a fatal auth failure. No
// other failure class is ever retried here.
func (c *restClient) DoRequest(ctx context.Context, method, path string, params url.Values, body []byte) ([]byte, error) {
	token, err := c.tokens.CurrentToken(ctx)
	if err != nil {
		return nil, err
	}

	reqID := uuid.New().String()
	log := c.logger.With(
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("path", path),
	)

	resp, err := c.execute(ctx, method, path, params, token, body)
	if err != nil {
		return nil, &common.TransportError{Message: "request failed", Err: err}
	}
	log.Debug("salesforce call", zap.Int("status", resp.status), zap.Int("attempt", 1))

	if resp.status >= 400 && common.IsSessionInvalid(resp.body) {
		log.Info("session invalid, refreshing token")
		token, err = c.tokens.ForceRefresh(ctx)
		if err != nil {
			return nil, err
		}

		// second and final attempt
		resp, err = c.execute(ctx, method, path, params, token, body)
		if err != nil {
			return nil, &common.TransportError{Message: "request failed after token refresh", Err: err}
		}
		log.Debug("salesforce call", zap.Int("status", resp.status), zap.Int("attempt", 2))

		if resp.status >= 400 && common.IsSessionInvalid(resp.body) {
			return nil, &common.AuthError{Message: "session still invalid after token refresh"}
		}
	}

	if resp.status >= 200 && resp.status < 300 {
		return resp.body, nil
	}
	return nil, common.ClassifyAPIError(resp.status, resp.header, resp.body)
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// execute does the low-level HTTP round trip.
func (c *restClient) execute(ctx context.Context, method, path string, params url.Values, token *model.AccessToken, body []byte) (*response, error) {
	urlStr, err := c.buildURL(token.InstanceURL, path, params)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.Value)
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// buildURL joins instance URL + data-API version prefix + path + params.
func (c *restClient) buildURL(instanceURL, path string, params url.Values) (string, error) {
	full, err := url.Parse(instanceURL + "/services/data/" + c.apiVersion + "/" + strings.TrimLeft(path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid request URL: %w", err)
	}
	if len(params) > 0 {
		full.RawQuery = params.Encode()
	}
	return full.String(), nil
}
