package jyutping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"tinci/model"
)

// HTTPRomanizer asks an external romanization service for readings.
// The service takes the text as a query parameter and answers with
// character/syllable pairs; a null syllable marks a character the
// service could not romanize. Requests are not retried, the caller
// decides how to handle a failed romanization.
type HTTPRomanizer struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

func NewHTTPRomanizer(baseURL string, timeout time.Duration, log *zap.Logger) *HTTPRomanizer {
	return &HTTPRomanizer{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("romanizer"),
	}
}

type apiResponse struct {
	Jyutping []model.CharSyllable `json:"jyutping"`
}

func (r *HTTPRomanizer) Romanize(ctx context.Context, text string) ([]model.CharSyllable, error) {
	reqURL := r.baseURL + "?text=" + url.QueryEscape(text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("romanizer: create request: %w", err)
	}

	r.log.Debug("romanizer request", zap.String("text", text))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Error("romanizer request failed", zap.Error(err))
		return nil, fmt.Errorf("romanizer: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("romanizer: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("romanizer: read body: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("romanizer: decode json: %w", err)
	}

	r.log.Debug("romanizer response", zap.Int("pairs", len(parsed.Jyutping)))
	return parsed.Jyutping, nil
}
