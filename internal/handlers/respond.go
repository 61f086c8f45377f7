// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers of the JSON API: the public
// forms, the cached read endpoints for the frontend, the revalidation
// webhook and the admin newsletter dispatch.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"menscircle/internal/service"
)

// maxBodyBytes caps the size of JSON request bodies.
const maxBodyBytes = 64 << 10

const msgInternal = "Ein Fehler ist aufgetreten. Bitte versuche es später erneut."

// successResponse is the body of a successful form submission.
type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}

// writeRaw writes an already encoded JSON body.
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, successResponse{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps a service error kind to an HTTP status code.
func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindInvalid:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindGone:
		return http.StatusGone
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError reports err to the client. Errors carrying a kind are
// shown with their message; anything else is logged and answered with a
// generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		writeError(w, statusFor(se.Kind), se.Message)
		return
	}
	slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, msgInternal)
}

// decodeJSON reads a JSON request body into v. It answers the request
// itself and returns false when the body is missing or malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Anfrage ist zu groß.")
			return false
		}
		writeError(w, http.StatusBadRequest, "Ungültige Anfrage.")
		return false
	}
	return true
}
