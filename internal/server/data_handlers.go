package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/dexbridge/dexbridge/internal/dexcom"
)

// parseTimestamp accepts both ISO 8601 and the Dexcom API format.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dexcom.TimeLayout, s)
}

func (s *Server) handleCurrentGlucose(w http.ResponseWriter, r *http.Request) {
	reading, err := s.client.CurrentGlucose(r.Context())
	if err != nil {
		log.Printf("❌ Error fetching current glucose: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch glucose data", "")
		return
	}
	if reading == nil {
		writeError(w, http.StatusNotFound, "No recent readings found",
			"No glucose data available in the last 15 minutes")
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleGlucoseRange(w http.ResponseWriter, r *http.Request) {
	startParam := r.URL.Query().Get("startDate")
	endParam := r.URL.Query().Get("endDate")
	if startParam == "" || endParam == "" {
		writeError(w, http.StatusBadRequest, "Missing parameters",
			"Both startDate and endDate are required (ISO 8601 format)")
		return
	}

	start, err := parseTimestamp(startParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid startDate", err.Error())
		return
	}
	end, err := parseTimestamp(endParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid endDate", err.Error())
		return
	}

	readings, err := s.client.GlucoseValues(r.Context(), dexcom.FormatTime(start), dexcom.FormatTime(end))
	if err != nil {
		log.Printf("❌ Error fetching glucose range: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch glucose data", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(readings),
		"startDate": startParam,
		"endDate":   endParam,
		"readings":  readings,
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid days parameter", "Days must be a number")
			return
		}
		days = parsed
	}
	if days < 1 || days > 90 {
		writeError(w, http.StatusBadRequest, "Invalid days parameter", "Days must be between 1 and 90")
		return
	}

	end := time.Now()
	start := end.Add(-time.Duration(days) * 24 * time.Hour)

	readings, err := s.client.GlucoseValues(r.Context(), dexcom.FormatTime(start), dexcom.FormatTime(end))
	if err != nil {
		log.Printf("❌ Error calculating statistics: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to calculate statistics", "")
		return
	}

	stats := dexcom.CalculateStatistics(readings)
	if stats == nil {
		writeError(w, http.StatusNotFound, "No data available",
			"No glucose data found for the requested period")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"period": map[string]interface{}{
			"days":      days,
			"startDate": start.Format(time.RFC3339),
			"endDate":   end.Format(time.RFC3339),
		},
		"statistics": stats,
	})
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.client.Devices(r.Context())
	if err != nil {
		log.Printf("❌ Error fetching devices: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch devices", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"devices": devices})
}

func (s *Server) handleDataRange(w http.ResponseWriter, r *http.Request) {
	dataRange, err := s.client.DataRange(r.Context())
	if err != nil {
		log.Printf("❌ Error fetching data range: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch data range", "")
		return
	}
	writeJSON(w, http.StatusOK, dataRange)
}
