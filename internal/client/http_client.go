package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anmicius0/rule-bulk-actions/internal/utils"
	"go.uber.org/zap"
	"resty.dev/v3"
)

// maxLoggedBody caps how much of an error body ends up in logs and errors.
const maxLoggedBody = 1000

// HTTPClient is a base HTTP client using resty for API requests.
type HTTPClient struct {
	client *resty.Client
}

// HTTPError represents an HTTP error response from the remote API.
// It exposes the status code so callers can carry it into per-rule errors
// without parsing text messages.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// NewHTTPClient creates a new HTTPClient with bearer auth and JSON headers.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	baseURL = strings.TrimSuffix(baseURL, "/")
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &HTTPClient{client: c}
}

// DoReq performs an HTTP request with the given method, endpoint, body, and query params.
// Logs errors for 4xx/5xx responses and truncates long bodies.
func (c *HTTPClient) DoReq(ctx context.Context, method, endpoint string, body any, params map[string]string) (*resty.Response, error) {
	request := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetQueryParams(params)

	utils.Logger.Debug("HTTP request start",
		zap.String(utils.FieldMethod, method),
		zap.String(utils.FieldEndpoint, endpoint))

	start := time.Now()
	response, err := request.Execute(method, endpoint)
	duration := time.Since(start)
	if err != nil {
		utils.Logger.Error("HTTP request failed",
			zap.String(utils.FieldMethod, method),
			zap.String(utils.FieldEndpoint, endpoint),
			zap.Error(err))
		return nil, err
	}

	if response.StatusCode() >= 400 {
		responseBody := strings.TrimSpace(response.String())
		if len(responseBody) > maxLoggedBody {
			responseBody = responseBody[:maxLoggedBody] + "…"
		}
		fields := []zap.Field{
			zap.String(utils.FieldMethod, method),
			zap.String(utils.FieldEndpoint, endpoint),
			zap.Int(utils.FieldStatusCode, response.StatusCode()),
			zap.String("body", responseBody),
			zap.Duration("duration", duration),
		}
		if response.StatusCode() >= 500 {
			utils.Logger.Error("Rule engine error response (server)", fields...)
		} else {
			// 4xx from the engine are usually authorization or conflict problems on some rules
			utils.Logger.Warn("Rule engine error response (client)", fields...)
		}
		return nil, &HTTPError{StatusCode: response.StatusCode(), Body: responseBody}
	}

	utils.Logger.Debug("HTTP request completed",
		zap.String(utils.FieldMethod, method),
		zap.String(utils.FieldEndpoint, endpoint),
		zap.Int(utils.FieldStatusCode, response.StatusCode()),
		zap.Duration("duration", duration))

	return response, nil
}
