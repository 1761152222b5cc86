// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package patrons

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/request"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/respond"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{identifier}", handler.getPatron)
	router.Get("/{identifier}/loans", handler.getLoans)
}

func (handler *Handler) getPatron(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")

	patron, err := handler.service.Resolve(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, patron)
}

func (handler *Handler) getLoans(writer http.ResponseWriter, request *http.Request) {
	identifier := requestutil.Param(request, "identifier")
	page := pagination.FromRequest(request)

	recordSet, meta, err := handler.service.Loans(request.Context(), identifier, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, recordSet, meta)
}
