package service

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

	"flight-assistant/internal/metrics"
	"flight-assistant/internal/model"
)

const (
	EndpointPredict = "/predict"
	EndpointChat    = "/chat"
)

// APIClient talks to the remote prediction service. Every call is bounded by
// the client timeout; a timeout surfaces as a TransportError.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// StatusError is a non-200 reply.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// TransportError is a connection failure or timeout. Error() is the
// underlying message unchanged so it can be shown to the user as is.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string { return e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a 200 reply whose body is not the expected JSON object.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("%s: decode response: %v", e.Endpoint, e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

func (c *APIClient) Predict(ctx context.Context, q model.FlightQuery) (*model.PredictionResult, error) {
	var raw struct {
		DelayRisk        *string  `json:"delay_risk"`
		DelayProbability *float64 `json:"delay_probability"`
	}
	err := c.doJSON(ctx, EndpointPredict, q, &raw, func() error {
		switch {
		case raw.DelayRisk == nil:
			return errors.New("missing delay_risk")
		case raw.DelayProbability == nil:
			return errors.New("missing delay_probability")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &model.PredictionResult{DelayRisk: *raw.DelayRisk, DelayProbability: *raw.DelayProbability}, nil
}

func (c *APIClient) Chat(ctx context.Context, query string, pred model.PredictionResult) (string, error) {
	var raw struct {
		Response *string `json:"response"`
	}
	body := model.ChatRequest{Query: query, Context: pred}
	err := c.doJSON(ctx, EndpointChat, body, &raw, func() error {
		if raw.Response == nil {
			return errors.New("missing response")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return *raw.Response, nil
}

func (c *APIClient) decodeFailed(endpoint string, err error) error {
	metrics.RemoteRequestsTotal.WithLabelValues(endpoint, "decode").Inc()
	return &DecodeError{Endpoint: endpoint, Err: err}
}

// doJSON posts body to endpoint and decodes a 200 reply into out. check, if
// set, rejects a decoded reply that lacks required keys.
func (c *APIClient) doJSON(ctx context.Context, endpoint string, body, out interface{}, check func() error) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	defer func() {
		metrics.RemoteRequestDurationSeconds.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(endpoint, "transport").Inc()
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(endpoint, "transport").Inc()
		return &TransportError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		metrics.RemoteRequestsTotal.WithLabelValues(endpoint, "status").Inc()
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(data), 200)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return c.decodeFailed(endpoint, err)
	}
	if check != nil {
		if err := check(); err != nil {
			return c.decodeFailed(endpoint, err)
		}
	}
	metrics.RemoteRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
