package floodapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Defaults for the Environment Agency flood-monitoring API.
const (
	DefaultBaseURL       = "https://environment.data.gov.uk/flood-monitoring"
	DefaultStationLimit  = 50
	DefaultReadingsLimit = 100
	DefaultTimeout       = 10 * time.Second
)

type Service interface {
	// ListStations returns up to limit stations in server order.
	ListStations(ctx context.Context, limit int) ([]Station, error)
	// GetReadings returns up to limit of the most recent readings for the
	// station, in the order the server sent them.
	GetReadings(ctx context.Context, reference string, limit int) ([]Reading, error)
}

var _ Service = (*dataService)(nil)

type dataService struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// Option configures the HTTP service.
type Option func(*dataService)

// WithBaseURL overrides the API root (no trailing slash needed).
func WithBaseURL(u string) Option {
	return func(s *dataService) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *dataService) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the per-request client timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *dataService) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *dataService) { s.log = l }
}

func NewService(opts ...Option) Service {
	s := &dataService{
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *dataService) ListStations(ctx context.Context, limit int) ([]Station, error) {
	u := s.baseURL + "/id/stations?_limit=" + strconv.Itoa(limit)
	var stations []Station
	if err := s.getItems(ctx, u, &stations); err != nil {
		return nil, err
	}
	for _, st := range stations {
		if st.badDateOpened != "" {
			s.log.Warn().Str("station", st.Reference).Str("date_opened", st.badDateOpened).
				Msg("unparseable dateOpened, leaving it empty")
		}
	}
	return stations, nil
}

func (s *dataService) GetReadings(ctx context.Context, reference string, limit int) ([]Reading, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, ErrInvalidReference
	}
	// _sorted is a bare flag; url.Values would render it as "_sorted=".
	u := fmt.Sprintf("%s/id/stations/%s/readings?_sorted&_limit=%d", s.baseURL, url.PathEscape(reference), limit)
	var readings []Reading
	if err := s.getItems(ctx, u, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

// getItems performs a GET and decodes the "items" array of the response
// envelope into out.
func (s *dataService) getItems(ctx context.Context, u string, out any) error {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &NetworkError{URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &NetworkError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{URL: u, Err: err}
	}

	var envelope struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &MalformedResponseError{URL: u, Reason: "invalid JSON", Err: err}
	}
	if len(envelope.Items) == 0 || string(envelope.Items) == "null" {
		return &MalformedResponseError{URL: u, Reason: "missing items"}
	}
	if err := json.Unmarshal(envelope.Items, out); err != nil {
		return &MalformedResponseError{URL: u, Reason: "unexpected items shape", Err: err}
	}

	s.log.Debug().
		Str("url", u).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("fetched")
	return nil
}
