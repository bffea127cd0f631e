package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blizzardforecast/blizzard"
	"github.com/blizzardforecast/blizzard/scenario"
	"github.com/blizzardforecast/blizzard/store"
)

func newTestServer(t *testing.T, st store.Store) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(SetupRoutes(st, nil, nil))
	t.Cleanup(srv.Close)
	return srv
}

func flatBaseline(n int) store.Baseline {
	values := make([]float64, n)
	for i := range values {
		values[i] = 1000
	}
	return store.Baseline{
		Series:     values,
		StartYear:  2022,
		StartMonth: time.January,
		FetchedAt:  time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	resp, err := http.Get(srv.URL + "/healthz")
	require.Nil(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForecastEndpoint(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	in := blizzard.ForecastInput{
		Series:         flatBaseline(36).Series,
		StartYear:      2022,
		StartMonth:     1,
		ForecastMonths: 12,
	}
	payload, err := json.Marshal(in)
	require.Nil(t, err)

	resp, err := http.Post(srv.URL+"/forecast", "application/json", bytes.NewReader(payload))
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res blizzard.Results
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.Len(t, res.Forecast, 12)
	for i := range res.Forecast {
		assert.LessOrEqual(t, res.Lower[i], res.Forecast[i])
		assert.LessOrEqual(t, res.Forecast[i], res.Upper[i])
	}
}

func TestForecastEndpointValidation(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	testData := map[string]string{
		"malformed body": `{"series": [`,
		"short series":   `{"series": [1, 2, 3], "start_year": 2024, "start_month": 1, "forecast_months": 12}`,
		"zero months":    `{"series": [1, 2, 3], "start_year": 2024, "start_month": 1, "forecast_months": 0}`,
	}

	for name, body := range testData {
		t.Run(name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/forecast", "application/json", bytes.NewReader([]byte(body)))
			require.Nil(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var eo ErrorResponse
			require.Nil(t, json.NewDecoder(resp.Body).Decode(&eo))
			assert.NotEmpty(t, eo.Error)
		})
	}
}

func TestBaselineEndpoints(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	resp, err := http.Get(srv.URL + "/baseline")
	require.Nil(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	payload, err := json.Marshal(flatBaseline(36))
	require.Nil(t, err)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/baseline", bytes.NewReader(payload))
	require.Nil(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.Nil(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/baseline")
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var b store.Baseline
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&b))
	assert.Len(t, b.Series, 36)
}

func TestPutBaselineRejectsMalformedSeries(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	b := flatBaseline(12)
	b.StartMonth = 13
	payload, err := json.Marshal(b)
	require.Nil(t, err)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/baseline", bytes.NewReader(payload))
	require.Nil(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.Nil(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func createScenario(t *testing.T, srv *httptest.Server, req createScenarioRequest) scenario.Scenario {
	t.Helper()

	payload, err := json.Marshal(req)
	require.Nil(t, err)

	resp, err := http.Post(srv.URL+"/scenarios", "application/json", bytes.NewReader(payload))
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sc scenario.Scenario
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&sc))
	return sc
}

func TestScenarioCRUD(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	sc := createScenario(t, srv, createScenarioRequest{
		Name: "lose acme",
		Adjustments: []scenario.Adjustment{
			{Type: scenario.TypeRemove, TargetType: scenario.TargetCustomer, TargetKey: "acme"},
		},
	})
	require.NotEmpty(t, sc.ID)
	assert.Equal(t, "lose acme", sc.Name)

	resp, err := http.Get(srv.URL + "/scenarios/" + sc.ID)
	require.Nil(t, err)
	var got scenario.Scenario
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	assert.Equal(t, sc.ID, got.ID)

	resp, err = http.Get(srv.URL + "/scenarios")
	require.Nil(t, err)
	var list []scenario.Scenario
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list, 1)

	update, err := json.Marshal(createScenarioRequest{
		Name: "halve acme",
		Adjustments: []scenario.Adjustment{
			{Type: scenario.TypeScale, TargetType: scenario.TargetCustomer, TargetKey: "acme", Factor: 0.5},
		},
	})
	require.Nil(t, err)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/scenarios/"+sc.ID, bytes.NewReader(update))
	require.Nil(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.Nil(t, err)
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&got))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "halve acme", got.Name)
	require.Len(t, got.Adjustments, 1)
	assert.Equal(t, scenario.TypeScale, got.Adjustments[0].Type)

	req, err = http.NewRequest(http.MethodDelete, srv.URL+"/scenarios/"+sc.ID, nil)
	require.Nil(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.Nil(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/scenarios/" + sc.ID)
	require.Nil(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateScenarioRejectsInvalidAdjustment(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	payload, err := json.Marshal(createScenarioRequest{
		Name:        "broken",
		Adjustments: []scenario.Adjustment{{Type: "bogus"}},
	})
	require.Nil(t, err)

	resp, err := http.Post(srv.URL+"/scenarios", "application/json", bytes.NewReader(payload))
	require.Nil(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScenarioForecast(t *testing.T) {
	st := store.NewMemoryStore()
	require.Nil(t, st.PutBaseline(context.Background(), flatBaseline(48)))

	srv := newTestServer(t, st)

	sc := createScenario(t, srv, createScenarioRequest{
		Name: "halve a big customer",
		Adjustments: []scenario.Adjustment{
			{Type: scenario.TypeScale, TargetType: scenario.TargetCustomer, TargetKey: "acme", Factor: 0.5},
		},
	})

	resp, err := http.Post(fmt.Sprintf("%s/scenarios/%s/forecast?months=6", srv.URL, sc.ID), "application/json", nil)
	require.Nil(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var res blizzard.Results
	require.Nil(t, json.NewDecoder(resp.Body).Decode(&res))
	require.Len(t, res.Forecast, 6)

	// A 10%-share halving of a flat 1000 baseline forecasts near 950.
	for i, v := range res.Forecast {
		assert.InDelta(t, 950.0, v, 30.0, "step %d", i)
	}
}

func TestScenarioForecastWithoutBaseline(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	sc := createScenario(t, srv, createScenarioRequest{Name: "no baseline"})

	resp, err := http.Post(srv.URL+"/scenarios/"+sc.ID+"/forecast", "application/json", nil)
	require.Nil(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestScenarioForecastUnknownScenario(t *testing.T) {
	srv := newTestServer(t, store.NewMemoryStore())

	resp, err := http.Post(srv.URL+"/scenarios/nope/forecast", "application/json", nil)
	require.Nil(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(SetupRoutes(store.NewMemoryStore(), NewMetrics(), nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.Nil(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}