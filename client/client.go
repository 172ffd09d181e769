// Package client is a thin HTTP client for the phenotype prediction API.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type PatientRequest struct {
	Age                   float64 `json:"age"`
	Weight                float64 `json:"weight"`
	EGFR                  float64 `json:"egfr"`
	Sex                   string  `json:"sex"`
	CYP2D6Inhibitor       string  `json:"cyp2d6_inhibitor"`
	PriorCodeineResponse  string  `json:"prior_codeine_response"`
	PriorTramadolResponse string  `json:"prior_tramadol_response"`
}

type PredictionResponse struct {
	Predicted     string             `json:"predicted"`
	Confidence    string             `json:"confidence"`
	Probabilities map[string]float64 `json:"probabilities"`
}

type apiError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	http *resty.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
	}
}

func (c *Client) Info(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.get(ctx, "/", &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/health", &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

func (c *Client) Predict(ctx context.Context, in PatientRequest) (*PredictionResponse, error) {
	var out PredictionResponse
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(&out).
		SetError(&apiErr).
		Post("/predict_phenotype")
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error, Details: apiErr.Details}
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	var apiErr apiError
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: apiErr.Error, Details: apiErr.Details}
	}
	return nil
}
