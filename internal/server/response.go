// ABOUTME: Response envelope types shared by every API endpoint
// ABOUTME: Every payload carries a success flag, numeric code, and localized message

package server

import (
	"encoding/json"
	"net/http"
)

// CommonResult is the envelope every response carries.
type CommonResult struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SingleResult wraps the envelope around one data object.
type SingleResult struct {
	CommonResult
	Data any `json:"data"`
}

// ListResult wraps the envelope around a collection.
type ListResult struct {
	CommonResult
	List any `json:"list"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
