package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// runner is what the trigger endpoint needs from the engine.
type runner interface {
	Run(ctx context.Context, locale string) ([]*PairingProposal, error)
}

// matchTriggerHandler runs the engine once for a locale tag.
// POST /match/trigger with {"timezone": "..."}; GET works too for quick
// manual triggers and defaults to UTC.
func matchTriggerHandler(engine runner) http.HandlerFunc {
	return authenticate(func(w http.ResponseWriter, r *http.Request) {
		var timezone string
		switch r.Method {
		case http.MethodPost:
			type TriggerRequest struct {
				Timezone string `json:"timezone"`
			}
			var req TriggerRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_json")
				return
			}
			timezone = strings.TrimSpace(req.Timezone)
			if timezone == "" {
				writeError(w, http.StatusBadRequest, "missing_timezone")
				return
			}
		case http.MethodGet:
			timezone = r.URL.Query().Get("timezone")
			if timezone == "" {
				timezone = "UTC"
			}
		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		pairings, err := engine.Run(r.Context(), timezone)
		if err != nil {
			log.Printf("trigger: run for %s failed: %v", timezone, err)
			writeError(w, http.StatusInternalServerError, "matching_error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"timezone": timezone,
			"count":    len(pairings),
			"pairings": pairings,
		})
	})
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
