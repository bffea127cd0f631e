package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blizzardforecast/blizzard"
	"github.com/blizzardforecast/blizzard/forecast"
	"github.com/blizzardforecast/blizzard/monthseries"
	"github.com/blizzardforecast/blizzard/scenario"
	"github.com/blizzardforecast/blizzard/store"
)

const defaultForecastMonths = 12

// SetupRoutes configures the engine's HTTP endpoints.
func SetupRoutes(st store.Store, metrics *Metrics, logger *slog.Logger) *http.ServeMux {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.Handle("GET /healthz", HealthHandler())
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /forecast", handleForecast(metrics, logger))

	mux.HandleFunc("GET /baseline", handleGetBaseline(st, logger))
	mux.HandleFunc("PUT /baseline", handlePutBaseline(st, logger))

	mux.HandleFunc("GET /scenarios", handleListScenarios(st, metrics, logger))
	mux.HandleFunc("POST /scenarios", handleCreateScenario(st, metrics, logger))
	mux.HandleFunc("GET /scenarios/{id}", handleGetScenario(st, logger))
	mux.HandleFunc("PUT /scenarios/{id}", handleUpdateScenario(st, metrics, logger))
	mux.HandleFunc("DELETE /scenarios/{id}", handleDeleteScenario(st, metrics, logger))
	mux.HandleFunc("POST /scenarios/{id}/forecast", handleScenarioForecast(st, metrics, logger))

	return mux
}

// isValidationErr reports whether the failure is the caller's fault.
func isValidationErr(err error) bool {
	return errors.Is(err, forecast.ErrSeriesTooShort) ||
		errors.Is(err, forecast.ErrNonFiniteInput) ||
		errors.Is(err, forecast.ErrRegressorLenMismatch) ||
		errors.Is(err, forecast.ErrInvalidHorizon) ||
		errors.Is(err, forecast.ErrHorizonMismatch) ||
		errors.Is(err, blizzard.ErrInvalidForecastMonths) ||
		errors.Is(err, scenario.ErrInvalidAdjustment) ||
		errors.Is(err, monthseries.ErrNoObservations) ||
		errors.Is(err, monthseries.ErrInvalidStartMonth) ||
		errors.Is(err, monthseries.ErrNonFiniteValue)
}

func handleForecast(metrics *Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in blizzard.ForecastInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Errorf("unable to parse input, %w", err))
			return
		}

		start := time.Now()
		res, err := blizzard.Run(&in)
		metrics.RecordForecast(time.Since(start).Seconds(), err == nil)
		if err != nil {
			status := http.StatusInternalServerError
			if isValidationErr(err) {
				status = http.StatusBadRequest
			}
			logger.Warn("forecast failed", "error", err)
			WriteError(w, status, err)
			return
		}

		if err := WriteJSON(w, http.StatusOK, res); err != nil {
			logger.Error("unable to write forecast response", "error", err)
		}
	}
}

func handleGetBaseline(st store.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, found, err := st.GetBaseline(r.Context())
		if err != nil {
			logger.Error("unable to get baseline", "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		if !found {
			WriteError(w, http.StatusNotFound, errors.New("no baseline stored"))
			return
		}
		if err := WriteJSON(w, http.StatusOK, b); err != nil {
			logger.Error("unable to write baseline response", "error", err)
		}
	}
}

func handlePutBaseline(st store.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b store.Baseline
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Errorf("unable to parse baseline, %w", err))
			return
		}

		// Validate the series shape before accepting it.
		if _, err := monthseries.New(b.Series, b.StartYear, b.StartMonth); err != nil {
			WriteError(w, http.StatusBadRequest, err)
			return
		}
		if b.FetchedAt.IsZero() {
			b.FetchedAt = time.Now().UTC()
		}

		if err := st.PutBaseline(r.Context(), b); err != nil {
			logger.Error("unable to store baseline", "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleListScenarios(st store.Store, metrics *Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scenarios, err := st.ListScenarios(r.Context())
		if err != nil {
			logger.Error("unable to list scenarios", "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		metrics.RecordScenarioOp("list")

		if scenarios == nil {
			scenarios = []scenario.Scenario{}
		}
		if err := WriteJSON(w, http.StatusOK, scenarios); err != nil {
			logger.Error("unable to write scenario list", "error", err)
		}
	}
}

// createScenarioRequest is the POST /scenarios body: a name plus an
// optional initial adjustment list. Identity and timestamps are assigned
// server-side.
type createScenarioRequest struct {
	Name        string                `json:"name"`
	Adjustments []scenario.Adjustment `json:"adjustments"`
}

func handleCreateScenario(st store.Store, metrics *Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createScenarioRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Errorf("unable to parse scenario, %w", err))
			return
		}
		if req.Name == "" {
			WriteError(w, http.StatusBadRequest, errors.New("scenario name required"))
			return
		}

		sc := scenario.NewScenario(req.Name)
		sc.Adjustments = req.Adjustments
		if err := sc.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err)
			return
		}

		if err := st.PutScenario(r.Context(), *sc); err != nil {
			logger.Error("unable to store scenario", "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		metrics.RecordScenarioOp("create")

		if err := WriteJSON(w, http.StatusCreated, sc); err != nil {
			logger.Error("unable to write scenario response", "error", err)
		}
	}
}

func handleGetScenario(st store.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		sc, found, err := st.GetScenario(r.Context(), id)
		if err != nil {
			logger.Error("unable to get scenario", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		if !found {
			WriteError(w, http.StatusNotFound, fmt.Errorf("scenario %q not found", id))
			return
		}
		if err := WriteJSON(w, http.StatusOK, sc); err != nil {
			logger.Error("unable to write scenario response", "error", err)
		}
	}
}

func handleUpdateScenario(st store.Store, metrics *Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		existing, found, err := st.GetScenario(r.Context(), id)
		if err != nil {
			logger.Error("unable to get scenario", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		if !found {
			WriteError(w, http.StatusNotFound, fmt.Errorf("scenario %q not found", id))
			return
		}

		var req createScenarioRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Errorf("unable to parse scenario, %w", err))
			return
		}

		if req.Name != "" {
			existing.Name = req.Name
		}
		existing.Adjustments = req.Adjustments
		existing.Modified = time.Now().UTC()
		if err := existing.Validate(); err != nil {
			WriteError(w, http.StatusBadRequest, err)
			return
		}

		if err := st.PutScenario(r.Context(), existing); err != nil {
			logger.Error("unable to store scenario", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		metrics.RecordScenarioOp("update")

		if err := WriteJSON(w, http.StatusOK, existing); err != nil {
			logger.Error("unable to write scenario response", "error", err)
		}
	}
}

func handleDeleteScenario(st store.Store, metrics *Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		deleted, err := st.DeleteScenario(r.Context(), id)
		if err != nil {
			logger.Error("unable to delete scenario", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		if !deleted {
			WriteError(w, http.StatusNotFound, fmt.Errorf("scenario %q not found", id))
			return
		}
		metrics.RecordScenarioOp("delete")
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleScenarioForecast(st store.Store, metrics *Metrics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		months := defaultForecastMonths
		if raw := r.URL.Query().Get("months"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				WriteError(w, http.StatusBadRequest, fmt.Errorf("invalid months %q", raw))
				return
			}
			months = parsed
		}

		sc, found, err := st.GetScenario(r.Context(), id)
		if err != nil {
			logger.Error("unable to get scenario", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		if !found {
			WriteError(w, http.StatusNotFound, fmt.Errorf("scenario %q not found", id))
			return
		}

		b, found, err := st.GetBaseline(r.Context())
		if err != nil {
			logger.Error("unable to get baseline", "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}
		if !found {
			WriteError(w, http.StatusConflict, errors.New("no baseline stored to apply the scenario to"))
			return
		}

		series, err := monthseries.New(b.Series, b.StartYear, b.StartMonth)
		if err != nil {
			logger.Error("stored baseline is malformed", "error", err)
			WriteError(w, http.StatusInternalServerError, err)
			return
		}

		adjusted, err := scenario.Apply(series, &sc, nil)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err)
			return
		}

		start := time.Now()
		f := blizzard.New(nil)
		err = f.Fit(adjusted)
		var res *blizzard.Results
		if err == nil {
			res, err = f.Forecast(months)
		}
		metrics.RecordForecast(time.Since(start).Seconds(), err == nil)
		if err != nil {
			status := http.StatusInternalServerError
			if isValidationErr(err) {
				status = http.StatusBadRequest
			}
			logger.Warn("scenario forecast failed", "id", id, "error", err)
			WriteError(w, status, err)
			return
		}

		if err := WriteJSON(w, http.StatusOK, res); err != nil {
			logger.Error("unable to write forecast response", "error", err)
		}
	}
}
