// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vitrine-labs/persona-engine/internal/config"
	"github.com/vitrine-labs/persona-engine/internal/logging"
	"github.com/vitrine-labs/persona-engine/internal/metrics"
)

// maxErrorBodyBytes bounds how much of a gateway error body is read for
// logging.
const maxErrorBodyBytes = 4096

// Client talks to the decentralized object gateway over HTTP. Uploads go to
// PUT {gateway}/file as multipart form data with the account headers;
// downloads come from GET {gateway}/file/download/{fid}.
//
// All calls run through a circuit breaker so a dead gateway fails fast
// instead of tying up request handlers for the full timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	territory  string
	account    string
	message    string
	signature  string
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg *config.GatewayConfig) *Client {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "object-gateway",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Gateway circuit breaker state change")
			metrics.BreakerState.Set(breakerStateValue(to))
		},
		IsSuccessful: func(err error) bool {
			// Missing objects are a valid gateway answer, not a gateway
			// failure; they must not trip the breaker.
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		territory:  cfg.Territory,
		account:    cfg.Account,
		message:    cfg.Message,
		signature:  cfg.Signature,
		breaker:    breaker,
	}
}

// uploadResponse covers both response shapes the gateway emits: the file
// identifier at the top level or nested under data. The nested shape is
// preferred when both are present.
type uploadResponse struct {
	FID  string `json:"fid"`
	Data struct {
		FID string `json:"fid"`
	} `json:"data"`
}

func (r *uploadResponse) fid() string {
	if r.Data.FID != "" {
		return r.Data.FID
	}
	return r.FID
}

// Upload stores data under filename on the gateway and returns the assigned
// file identifier.
func (c *Client) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	start := time.Now()
	fidBytes, err := c.breaker.Execute(func() ([]byte, error) {
		fid, err := c.doUpload(ctx, data, filename, contentType)
		return []byte(fid), err
	})
	metrics.StorageRequestDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.StorageUploads.WithLabelValues(outcomeLabel(err)).Inc()
		return "", mapBreakerError(err)
	}
	metrics.StorageUploads.WithLabelValues("success").Inc()
	return string(fidBytes), nil
}

func (c *Client) doUpload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write multipart: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/file", &body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Territory", c.territory)
	req.Header.Set("Account", c.account)
	req.Header.Set("Message", c.message)
	req.Header.Set("Signature", c.signature)

	logging.Debug().Str("filename", filename).Int("bytes", len(data)).Msg("Uploading object to gateway")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.statusError("upload", resp)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read upload response: %v", ErrUnavailable, err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: malformed upload response: %v", ErrProtocol, err)
	}
	fid := parsed.fid()
	if fid == "" {
		return "", fmt.Errorf("%w: no fid in upload response", ErrProtocol)
	}

	logging.Info().Str("fid", fid).Str("filename", filename).Msg("Object uploaded to gateway")
	return fid, nil
}

// Download retrieves an object's bytes by file identifier.
func (c *Client) Download(ctx context.Context, fid string) ([]byte, error) {
	start := time.Now()
	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doDownload(ctx, fid)
	})
	metrics.StorageRequestDuration.WithLabelValues("download").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.StorageDownloads.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, mapBreakerError(err)
	}
	metrics.StorageDownloads.WithLabelValues("success").Inc()
	return data, nil
}

func (c *Client) doDownload(ctx context.Context, fid string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/file/download/"+fid, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: fid %s", ErrNotFound, fid)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError("download", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read download response: %v", ErrUnavailable, err)
	}
	return data, nil
}

// Healthy probes the gateway with a short HEAD request. Used by /health.
func (c *Client) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// statusError classifies a non-success gateway status. Server errors mean
// unavailability; anything else unexpected is a protocol violation.
func (c *Client) statusError(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	logging.Warn().
		Str("operation", op).
		Int("status", resp.StatusCode).
		Str("body", string(snippet)).
		Msg("Gateway returned error status")

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: %s status %d", ErrUnavailable, op, resp.StatusCode)
	}
	return fmt.Errorf("%w: %s status %d", ErrProtocol, op, resp.StatusCode)
}

// mapBreakerError converts breaker rejections to the unavailability
// sentinel; other errors pass through.
func mapBreakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: circuit open", ErrUnavailable)
	}
	return err
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrProtocol):
		return "protocol_error"
	default:
		return "unavailable"
	}
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
