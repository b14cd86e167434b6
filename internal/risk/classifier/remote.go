package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/creditrisk/internal/risk/domain"
	"github.com/aussiebroadwan/creditrisk/internal/risk/encoding"
)

// Remote scores rows on an HTTP model server.
//
//	GET  {base}/schema  -> {"features": [...]}
//	POST {base}/predict -> {"predictions": [c], "probabilities": [[p_bad, p_good]]}
type Remote struct {
	baseURL string
	client  *http.Client
	schema  Schema
}

type remoteSchema struct {
	Features []string `json:"features"`
}

type remotePredictRequest struct {
	Features []string     `json:"features"`
	Rows     [][8]float64 `json:"rows"`
}

type remotePredictResponse struct {
	Predictions   []int        `json:"predictions"`
	Probabilities [][2]float64 `json:"probabilities"`
}

// DialRemote fetches the model schema from baseURL. timeout bounds every
// call to the server.
func DialRemote(ctx context.Context, baseURL string, timeout time.Duration) (*Remote, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	r := &Remote{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}

	var s remoteSchema
	if err := r.do(ctx, http.MethodGet, "/schema", nil, &s); err != nil {
		return nil, &domain.StartupError{Artifact: artifact, Path: baseURL, Err: err}
	}
	r.schema = Schema{NFeatures: len(s.Features), Names: s.Features}
	return r, nil
}

func (r *Remote) Schema() Schema { return r.schema }

func (r *Remote) Classify(ctx context.Context, f domain.Features) (Output, error) {
	req := remotePredictRequest{
		Features: encoding.FeatureOrder[:],
		Rows:     [][8]float64{f},
	}

	var resp remotePredictResponse
	if err := r.do(ctx, http.MethodPost, "/predict", req, &resp); err != nil {
		return Output{}, err
	}
	if len(resp.Predictions) != 1 || len(resp.Probabilities) != 1 {
		return Output{}, fmt.Errorf("model server returned %d predictions and %d probability rows for 1 row",
			len(resp.Predictions), len(resp.Probabilities))
	}
	return Output{Class: resp.Predictions[0], Probabilities: resp.Probabilities[0]}, nil
}

func (r *Remote) do(ctx context.Context, method, path string, body, target any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("model server %s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
