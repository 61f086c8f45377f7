// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"menscircle/internal/service"
)

// Admin groups the endpoints reserved for the organizers. Routes are
// guarded by middleware.RequireAdminToken.
type Admin struct {
	newsletters *service.Newsletters
}

// NewAdmin creates the admin handler group.
func NewAdmin(newsletters *service.Newsletters) *Admin {
	return &Admin{newsletters: newsletters}
}

type sendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
}

// SendNewsletter broadcasts a draft newsletter to all confirmed
// subscribers. The request blocks until every batch is done.
func (a *Admin) SendNewsletter(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, service.MsgNewsletterIDMissing)
		return
	}

	res, err := a.newsletters.Broadcast(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sendResponse{
		Success: true,
		Message: service.BroadcastMessage(res),
		Sent:    res.Sent,
		Failed:  res.Failed,
	})
}
