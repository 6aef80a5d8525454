package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusBackend_Query(t *testing.T) {
	var gotQuery, gotStep string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/query_range", r.URL.Path)
		gotQuery = r.URL.Query().Get("query")
		gotStep = r.URL.Query().Get("step")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": {
				"resultType": "matrix",
				"result": [
					{"metric": {"pod": "a"}, "values": [[1000, "10"], [1300, "20"], [1600, "30"]]},
					{"metric": {"pod": "b"}, "values": [[1000, "1"], [1600, "3"]]}
				]
			}
		}`))
	}))
	defer srv.Close()

	b := NewPrometheusBackend(PrometheusConfig{ServerURL: srv.URL})
	series := []SeriesSpec{{ID: "cpu_util", Query: `sum(rate(container_cpu_usage_seconds_total[5m]))`, Period: time.Minute}}

	samples, err := b.Query(context.Background(), series, TimeRange{Start: testNow.Add(-time.Hour), End: testNow})
	require.NoError(t, err)

	assert.Equal(t, []float64{33, 20, 11}, samples["cpu_util"])
	assert.Equal(t, `sum(rate(container_cpu_usage_seconds_total[5m]))`, gotQuery)
	assert.Equal(t, "60", gotStep)
}

func TestPrometheusBackend_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "non-200", status: http.StatusServiceUnavailable, body: `{}`, wantErr: ErrQueryFailed},
		{name: "error status", status: http.StatusOK, body: `{"status":"error","error":"bad query"}`, wantErr: ErrQueryFailed},
		{name: "not json", status: http.StatusOK, body: `<html>`, wantErr: ErrInvalidResponse},
		{name: "bad value", status: http.StatusOK, body: `{"status":"success","data":{"result":[{"values":[[1,"x"]]}]}}`, wantErr: ErrInvalidResponse},
		{name: "bad pair", status: http.StatusOK, body: `{"status":"success","data":{"result":[{"values":[[1]]}]}}`, wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			b := NewPrometheusBackend(PrometheusConfig{ServerURL: srv.URL})
			_, err := b.Query(context.Background(), []SeriesSpec{{ID: "x", Query: "up"}}, TimeRange{Start: testNow.Add(-time.Hour), End: testNow})

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPrometheusBackend_MissingQuery(t *testing.T) {
	b := NewPrometheusBackend(PrometheusConfig{ServerURL: "http://127.0.0.1:1"})

	_, err := b.Query(context.Background(), []SeriesSpec{{ID: "cpu_util"}}, TimeRange{})

	assert.ErrorIs(t, err, ErrQueryFailed)
}

func TestPrometheusBackend_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","data":{"resultType":"matrix","result":[]}}`))
	}))
	defer srv.Close()

	b := NewPrometheusBackend(PrometheusConfig{ServerURL: srv.URL})
	samples, err := b.Query(context.Background(), []SeriesSpec{{ID: "x", Query: "up"}}, TimeRange{Start: testNow.Add(-time.Hour), End: testNow})

	require.NoError(t, err)
	assert.Empty(t, samples["x"])
}

func TestPrometheusBackend_HealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/-/healthy" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.NoError(t, NewPrometheusBackend(PrometheusConfig{ServerURL: srv.URL}).HealthCheck(context.Background()))
}

func TestPrometheusBackend_DropsNonFiniteSamples(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []float64
	}{
		{name: "NaN", value: "NaN", expected: []float64{20}},
		{name: "positive infinity", value: "+Inf", expected: []float64{20}},
		{name: "negative infinity", value: "-Inf", expected: []float64{20}},
		{name: "finite", value: "5", expected: []float64{5, 20, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = fmt.Fprintf(w, `{"status":"success","data":{"resultType":"matrix","result":[
					{"values": [[1000, %q], [1300, "20"], [1600, %q]]}
				]}}`, tt.value, tt.value)
			}))
			defer srv.Close()

			b := NewPrometheusBackend(PrometheusConfig{ServerURL: srv.URL})
			samples, err := b.Query(context.Background(), []SeriesSpec{{ID: "p99", Query: "histogram_quantile(0.99, x)"}}, TimeRange{Start: testNow.Add(-time.Hour), End: testNow})

			require.NoError(t, err)
			assert.Equal(t, tt.expected, samples["p99"])
		})
	}
}
