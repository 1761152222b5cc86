// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/middleware"
	requestutil "github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/request"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/respond"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/sec"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Post("/login", handler.login)

	// Authenticated
	router.Group(func(privateRoute chi.Router) {
		privateRoute.Use(middleware.RequireAuth)

		privateRoute.Post("/logout", handler.logout)
		privateRoute.Get("/me", handler.me)

		// Account administration
		privateRoute.Group(func(adminRoute chi.Router) {
			adminRoute.Use(middleware.RequireRole(sec.RoleAdmin))

			adminRoute.Get("/accounts", handler.listAccounts)
			adminRoute.Post("/accounts", handler.createAccount)
			adminRoute.Patch("/accounts/{id}/active", handler.setAccountActive)
		})
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tokenResponse, err := handler.service.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tokenResponse)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	accountID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.GetAccount(request.Context(), accountID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, account)
}

func (handler *Handler) listAccounts(writer http.ResponseWriter, request *http.Request) {
	accounts, err := handler.service.ListAccounts(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, accounts)
}

func (handler *Handler) createAccount(writer http.ResponseWriter, request *http.Request) {
	var input CreateAccountInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.service.CreateAccount(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, account)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (handler *Handler) setAccountActive(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "id")

	var input setActiveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetAccountActive(request.Context(), id, input.Active); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
