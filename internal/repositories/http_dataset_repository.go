package repositories

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"flightdesk/internal/domain"
	"flightdesk/internal/domain/models"
)

const (
	defaultFetchTimeout = 10 * time.Second
	maxDatasetBytes     = 16 << 20
	cacheBustParam      = "_t"
)

// HTTPDatasetRepository fetches database.json over HTTP. Each request carries
// a _t=<unix millis> query parameter so intermediaries never serve a stale copy.
type HTTPDatasetRepository struct {
	URL    string
	Client *http.Client
	Now    func() time.Time
}

func NewHTTPDatasetRepository(rawURL string) HTTPDatasetRepository {
	return HTTPDatasetRepository{
		URL: rawURL,
		Client: &http.Client{
			Timeout: defaultFetchTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        4,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		Now: time.Now,
	}
}

func (r HTTPDatasetRepository) Name() string { return "http:" + r.URL }

func (r HTTPDatasetRepository) Load(ctx context.Context) (models.Dataset, error) {
	target, err := r.requestURL()
	if err != nil {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := r.client().Do(req)
	if err != nil {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxDatasetBytes))
	if err != nil {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: fmt.Errorf("read body: %w", err)}
	}
	return decodeDataset(r.Name(), raw)
}

func (r HTTPDatasetRepository) requestURL() (string, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return "", fmt.Errorf("parse dataset url: %w", err)
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	q := u.Query()
	q.Set(cacheBustParam, strconv.FormatInt(now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (r HTTPDatasetRepository) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}
