package collector

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// PrometheusBackend evaluates each series' PromQL expression with
// /api/v1/query_range. When an expression yields several series their
// values are summed per timestamp.
type PrometheusBackend struct {
	serverURL string
	client    *http.Client
}

type PrometheusConfig struct {
	ServerURL string
	Timeout   time.Duration
}

func NewPrometheusBackend(cfg PrometheusConfig) *PrometheusBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &PrometheusBackend{
		serverURL: cfg.ServerURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (b *PrometheusBackend) Name() string { return "prometheus" }

func (b *PrometheusBackend) Query(ctx context.Context, series []SeriesSpec, tr TimeRange) (Samples, error) {
	out := make(Samples, len(series))
	for _, s := range series {
		if s.Query == "" {
			return nil, fmt.Errorf("%w: series %q has no query", ErrQueryFailed, s.ID)
		}
		values, err := b.queryRange(ctx, s, tr)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.ID, err)
		}
		out[s.ID] = values
	}
	return out, nil
}

func (b *PrometheusBackend) queryRange(ctx context.Context, s SeriesSpec, tr TimeRange) ([]float64, error) {
	u, err := url.Parse(b.serverURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid server url: %v", ErrQueryFailed, err)
	}
	u.Path = "/api/v1/query_range"

	step := s.Period
	if step <= 0 {
		step = DefaultPeriod
	}

	q := u.Query()
	q.Set("query", s.Query)
	q.Set("start", strconv.FormatInt(tr.Start.Unix(), 10))
	q.Set("end", strconv.FormatInt(tr.End.Unix(), 10))
	q.Set("step", strconv.Itoa(int(step.Seconds())))
	u.RawQuery = q.Encode()

	body, err := b.get(ctx, u.String())
	if err != nil {
		return nil, err
	}

	if status := gjson.GetBytes(body, "status").String(); status != "success" {
		return nil, fmt.Errorf("%w: prometheus status %q: %s", ErrQueryFailed, status, gjson.GetBytes(body, "error").String())
	}

	return sumByTimestamp(gjson.GetBytes(body, "data.result"))
}

// sumByTimestamp flattens a matrix result into one newest-first series.
// NaN and infinite samples are dropped.
func sumByTimestamp(result gjson.Result) ([]float64, error) {
	acc := make(map[int64]float64)
	var parseErr error

	result.ForEach(func(_, serie gjson.Result) bool {
		serie.Get("values").ForEach(func(_, pair gjson.Result) bool {
			arr := pair.Array()
			if len(arr) != 2 {
				parseErr = fmt.Errorf("%w: value pair has %d elements", ErrInvalidResponse, len(arr))
				return false
			}
			v, err := strconv.ParseFloat(arr[1].String(), 64)
			if err != nil {
				parseErr = fmt.Errorf("%w: parse value: %v", ErrInvalidResponse, err)
				return false
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
			acc[int64(arr[0].Float())] += v
			return true
		})
		return parseErr == nil
	})
	if parseErr != nil {
		return nil, parseErr
	}

	stamps := make([]int64, 0, len(acc))
	for ts := range acc {
		stamps = append(stamps, ts)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i] > stamps[j] })

	values := make([]float64, len(stamps))
	for i, ts := range stamps {
		values[i] = acc[ts]
	}
	return values, nil
}

func (b *PrometheusBackend) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrQueryFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrQueryFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrQueryFailed, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidResponse
	}
	return body, nil
}

func (b *PrometheusBackend) HealthCheck(ctx context.Context) error {
	u, err := url.Parse(b.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	u.Path = "/-/healthy"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
