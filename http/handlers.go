package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"flightdelay/db"
	"flightdelay/flights"
	"flightdelay/ml"
	"flightdelay/monitoring"
)

type flightPayload struct {
	Opera     string `json:"OPERA"`
	TipoVuelo string `json:"TIPOVUELO"`
	Mes       int    `json:"MES"`
}

type predictRequest struct {
	Flights []flightPayload `json:"flights"`
}

type predictResponse struct {
	Predict []int `json:"predict"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func RegisterHandlers(mux *http.ServeMux, svc *ml.Service, stats *monitoring.Stats, hub *monitoring.Hub) {
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("POST /api/predict", handlePredict(svc, stats))
	mux.HandleFunc("GET /api/model", handleModel(svc))
	if hub != nil {
		mux.HandleFunc("GET /api/ws/stats", hub.ServeWS)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "OK"})
}

func handlePredict(svc *ml.Service, stats *monitoring.Stats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Flights) == 0 {
			writeError(w, r, http.StatusBadRequest, "flights is required")
			return
		}

		records := make([]flights.Record, len(req.Flights))
		for i, f := range req.Flights {
			records[i] = flights.Record{
				Operator: f.Opera,
				Type:     flights.FlightType(f.TipoVuelo),
				Month:    f.Mes,
			}
		}

		predictions, err := svc.Predict(records)
		if err != nil {
			if errors.Is(err, ml.ErrInvalidInput) {
				if stats != nil {
					stats.RecordRejected()
				}
				writeError(w, r, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, r, http.StatusInternalServerError, "prediction failed")
			return
		}

		if stats != nil {
			delayed := 0
			for _, p := range predictions {
				delayed += p
			}
			stats.RecordBatch(len(predictions), delayed)
		}
		// Best effort; serving does not depend on the prediction log.
		if err := db.SavePredictions(records, predictions); err != nil {
			zap.L().Debug("prediction log skipped", zap.Error(err))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(predictResponse{Predict: predictions})
	}
}

func handleModel(svc *ml.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(svc.Info())
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Error:     message,
		RequestID: GetRequestID(r.Context()),
	})
}
