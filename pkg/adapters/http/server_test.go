package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	markov "github.com/MohammadGhaderi0/Diabetes-Markov-Model"
	httpAdapter "github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/http"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/memory"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T, opts ...httpAdapter.Option) http.Handler {
	t.Helper()
	eng, err := markov.New("", markov.WithModel(domain.DefaultModel()), markov.WithSeed(1))
	require.NoError(t, err)
	return httpAdapter.NewHandler(eng, opts...)
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndInfo(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, http.MethodGet, "/info", "")
	require.Equal(t, http.StatusOK, w.Code)
	info := decode[map[string]any](t, w)
	assert.Equal(t, "default", info["model"])
	assert.EqualValues(t, 4, info["states"])
}

func TestCORSPreflight(t *testing.T) {
	w := do(t, newHandler(t), http.MethodOptions, "/simulate", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetModelAndGraph(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodGet, "/model", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[map[string]any](t, w)
	assert.Equal(t, []any{"Controlled", "Uncontrolled", "Severe", "Death"}, doc["states"])
	assert.Equal(t, []any{"Death"}, doc["terminal"])
	assert.EqualValues(t, 60, doc["steps"])

	w = do(t, h, http.MethodGet, "/model/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "stateDiagram-v2"))
}

func TestSimulate(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodPost, "/simulate", `{"patients":200,"start":"Uncontrolled","seed":7}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[httpAdapter.SimulateResponse](t, w)
	assert.Equal(t, 200, resp.Patients())
	assert.Nil(t, resp.Trajectories, "trajectories are omitted unless requested")
	assert.EqualValues(t, 7, resp.Seed)
	assert.Len(t, resp.Proportions, 4)

	again := do(t, h, http.MethodPost, "/simulate", `{"patients":200,"start":1,"seed":7}`)
	assert.JSONEq(t, w.Body.String(), again.Body.String(), "a fixed seed reproduces the cohort")
}

func TestSimulate_WithTrajectoriesAndInitial(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodPost, "/simulate", `{"patients":5,"initial":[0,0,1,0],"include_trajectories":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[httpAdapter.SimulateResponse](t, w)
	require.Len(t, resp.Trajectories, 5)
	for _, tr := range resp.Trajectories {
		assert.Equal(t, 2, tr[0])
	}
}

func TestSimulate_BadRequests(t *testing.T) {
	h := newHandler(t, httpAdapter.WithMaxPatients(100))

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"patients":`},
		{"zero patients", `{"patients":0}`},
		{"too many patients", `{"patients":101}`},
		{"unknown label", `{"patients":10,"start":"Cured"}`},
		{"index out of range", `{"patients":10,"start":9}`},
		{"bad initial", `{"patients":10,"initial":[0.5,0.5]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/simulate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
		})
	}
}

func TestGetExpected(t *testing.T) {
	h := newHandler(t)

	w := do(t, h, http.MethodGet, "/expected?start=Death&steps=3", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[httpAdapter.ExpectedResponse](t, w)
	assert.Equal(t, 3, resp.Start)
	assert.InDeltaSlice(t, []float64{0, 0, 0, 1}, resp.Distribution, 1e-12)

	w = do(t, h, http.MethodGet, "/expected", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 60, decode[httpAdapter.ExpectedResponse](t, w).Steps)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/expected?steps=-2", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/expected?start=7", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	eng, err := markov.New("",
		markov.WithModel(domain.DefaultModel()),
		markov.WithLifecycleHooks(metrics.Hooks(domain.DefaultStates)),
	)
	require.NoError(t, err)
	h := httpAdapter.NewHandler(eng, httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/simulate", `{"patients":30,"seed":3}`).Code)

	w := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "markov_patients_simulated_total 30")
	assert.Contains(t, w.Body.String(), "markov_cohort_duration_seconds_count 1")
}

func TestModelRegistry(t *testing.T) {
	h := newHandler(t, httpAdapter.WithStore(memory.NewStore()))

	w := do(t, h, http.MethodGet, "/models/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"models":[]}`, w.Body.String())

	w = do(t, h, http.MethodPut, "/models/two-state", `{"states":["A","B"],"matrix":[[0.5,0.5],[0,1]]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/models/two-state", "")
	require.Equal(t, http.StatusOK, w.Code)
	doc := decode[map[string]any](t, w)
	assert.Equal(t, []any{"B"}, doc["terminal"])

	w = do(t, h, http.MethodPut, "/models/broken", `{"states":["A"],"matrix":[[0.2]]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/models/two-state", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/models/two-state", "").Code)
}

func TestModelRegistry_NotMountedWithoutStore(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, do(t, newHandler(t), http.MethodGet, "/models/", "").Code)
}
