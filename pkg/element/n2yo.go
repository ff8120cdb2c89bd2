package element

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTLEURLTemplate is the N2YO TLE endpoint. It takes the NORAD ID
// and the API key, in that order.
const DefaultTLEURLTemplate = "https://api.n2yo.com/rest/v1/satellite/tle/%d&apiKey=%s"

// maxResponseBytes caps how much of a TLE response is read. A TLE
// payload is a few hundred bytes, so anything near the cap is garbage.
const maxResponseBytes = 1 << 20

// N2YOSource fetches element sets from the N2YO REST API.
type N2YOSource struct {
	urlTemplate string
	apiKey      string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewN2YOSource creates a source for the given endpoint template and API
// key. An empty template selects the default N2YO endpoint.
func NewN2YOSource(urlTemplate, apiKey string, timeout time.Duration, logger *slog.Logger) *N2YOSource {
	if urlTemplate == "" {
		urlTemplate = DefaultTLEURLTemplate
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &N2YOSource{
		urlTemplate: urlTemplate,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// tleResponse is the subset of the N2YO TLE payload we consume.
type tleResponse struct {
	Info struct {
		SatID   int    `json:"satid"`
		SatName string `json:"satname"`
	} `json:"info"`
	TLE string `json:"tle"`
}

// Fetch retrieves the current element set for one satellite. All
// network, status, and payload problems map to ErrUnavailable.
func (s *N2YOSource) Fetch(ctx context.Context, noradID int) (Set, error) {
	url := fmt.Sprintf(s.urlTemplate, noradID, s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Set{}, fmt.Errorf("norad %d: creating request: %v: %w", noradID, err, ErrUnavailable)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Set{}, fmt.Errorf("norad %d: fetching element set: %v: %w", noradID, err, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Set{}, fmt.Errorf("norad %d: unexpected status %d: %w", noradID, resp.StatusCode, ErrUnavailable)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Set{}, fmt.Errorf("norad %d: reading response: %v: %w", noradID, err, ErrUnavailable)
	}

	var payload tleResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Set{}, fmt.Errorf("norad %d: decoding response: %v: %w", noradID, err, ErrUnavailable)
	}

	if payload.TLE == "" {
		return Set{}, fmt.Errorf("norad %d: no TLE in response: %w", noradID, ErrUnavailable)
	}

	lines := strings.Split(strings.ReplaceAll(payload.TLE, "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return Set{}, fmt.Errorf("norad %d: incomplete TLE in response: %w", noradID, ErrUnavailable)
	}

	set, err := NewSet(noradID, strings.TrimSpace(payload.Info.SatName), lines[0], lines[1])
	if err != nil {
		return Set{}, err
	}

	s.logger.Debug("fetched element set", "norad_id", noradID, "name", set.Name)
	return set, nil
}
