package httpapi

import (
	"encoding/json"
	"net/http"
)

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func sendResponse(w http.ResponseWriter, statusCode int, success bool, message string, data any, errMsg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(response{
		Success: success,
		Message: message,
		Data:    data,
		Error:   errMsg,
	})
}

func sendSuccess(w http.ResponseWriter, message string, data any) {
	sendResponse(w, http.StatusOK, true, message, data, "")
}

func sendError(w http.ResponseWriter, statusCode int, message string) {
	sendResponse(w, statusCode, false, "", nil, message)
}
