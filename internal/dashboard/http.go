// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/middleware"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/respond"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/sec"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.get)

	// Eager rebuild is admin-only; it hits seven aggregates at once.
	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/refresh", handler.refresh)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	sections := query.StringSlice(request.URL.Query().Get("sections"))

	payload, err := handler.service.Get(request.Context(), sections)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payload)
}

func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	payload, err := handler.service.Refresh(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, payload)
}
