package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/cloo-solutions/jobfinder/internal/api"
	"github.com/cloo-solutions/jobfinder/internal/domain"
	"github.com/cloo-solutions/jobfinder/internal/telemetry"
	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

const (
	msgFetchJobs        = "Failed to fetch jobs"
	msgSaveJob          = "Failed to save job"
	msgUnsaveJob        = "Failed to unsave job"
	msgFetchSaved       = "Failed to fetch saved jobs"
	msgFetchCategories  = "Failed to fetch categories"
	msgAuthFailed       = "Authentication failed"
	msgSignupFailed     = "Failed to create account"
	msgFetchPreferences = "Failed to fetch preferences"
	msgSavePreferences  = "Failed to update preferences"
)

// ProxyHandler serves the local pass-through routes.
type ProxyHandler struct {
	upstream *Upstream
}

func NewProxyHandler(upstream *Upstream) *ProxyHandler {
	return &ProxyHandler{upstream: upstream}
}

type signupUpstreamRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type registerResponse struct {
	domain.User
	AccessToken string `json:"access_token"`
}

// Login exchanges {email, password} for a token using the backend's
// password-grant form endpoint.
func (h *ProxyHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := domain.ValidateCredentials(req.Email, req.Password); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, span := telemetry.StartSpan(r.Context(), "proxy.login", telemetry.SpanAttributes{
		Route:     "/api/auth/login",
		Operation: "login",
	})
	defer span.End()

	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  h.upstream.URL("/api/auth/login"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, h.upstream.Client())

	token, err := conf.PasswordCredentialsToken(ctx, req.Email, req.Password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			api.Relay(w, retrieveErr.Response.StatusCode, retrieveErr.Response.Header.Get("Content-Type"), retrieveErr.Body)
			return
		}
		h.transportFailure(w, span, msgAuthFailed, err)
		return
	}

	user, err := userFromExtra(token.Extra("user"))
	if err != nil {
		log.Printf("login: decode user: %v", err)
	}

	api.JSON(w, http.StatusOK, domain.AuthResult{
		Success: true,
		User:    user,
		Token:   token.AccessToken,
	})
}

// Signup maps the camelCase form to the backend's register payload.
func (h *ProxyHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := domain.ValidateCredentials(req.Email, req.Password); err != nil {
		api.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := json.Marshal(signupUpstreamRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		api.Error(w, http.StatusInternalServerError, msgSignupFailed)
		return
	}

	ctx, span := telemetry.StartSpan(r.Context(), "proxy.signup", telemetry.SpanAttributes{
		Route:     "/api/auth/register",
		Operation: "signup",
	})
	defer span.End()

	resp, err := h.upstream.Forward(ctx, http.MethodPost, "/api/auth/register", "", r.Header, body)
	if err != nil {
		h.transportFailure(w, span, msgSignupFailed, err)
		return
	}
	span.SetUpstreamStatus(resp.StatusCode)
	if !resp.OK() {
		api.Relay(w, resp.StatusCode, resp.ContentType, resp.Body)
		return
	}

	var reg registerResponse
	if err := json.Unmarshal(resp.Body, &reg); err != nil {
		h.transportFailure(w, span, msgSignupFailed, err)
		return
	}

	user := reg.User
	api.JSON(w, http.StatusOK, domain.AuthResult{
		Success: true,
		User:    &user,
		Token:   reg.AccessToken,
	})
}

func (h *ProxyHandler) Categories(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, http.MethodGet, "/api/categories", "", false, msgFetchCategories)
}

// Jobs forwards the caller's query string unchanged.
func (h *ProxyHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, http.MethodGet, "/api/jobs", r.URL.RawQuery, false, msgFetchJobs)
}

func (h *ProxyHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, http.MethodPost, "/api/search", "", false, msgFetchJobs)
}

func (h *ProxyHandler) SaveJob(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, http.MethodPost, "/api/jobs/save", "", true, msgSaveJob)
}

func (h *ProxyHandler) UnsaveJob(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimSpace(chi.URLParam(r, "jobId"))
	if jobID == "" {
		api.HandleError(w, domain.ErrMissingJobID)
		return
	}
	h.relay(w, r, http.MethodDelete, "/api/jobs/save/"+url.PathEscape(jobID), "", true, msgUnsaveJob)
}

func (h *ProxyHandler) SavedJobs(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, http.MethodGet, "/api/jobs/saved", "", true, msgFetchSaved)
}

func (h *ProxyHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, http.MethodGet, "/api/preferences", "", true, msgFetchPreferences)
}

func (h *ProxyHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	h.relay(w, r, http.MethodPut, "/api/preferences", "", true, msgSavePreferences)
}

// relay forwards r to path and writes the backend's reply as is. A backend
// 401 on a bearer route is normalised to {"error":"Unauthorized"}.
func (h *ProxyHandler) relay(w http.ResponseWriter, r *http.Request, method, path, rawQuery string, bearer bool, failure string) {
	var body []byte
	if r.Body != nil && method != http.MethodGet && method != http.MethodDelete {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				api.Error(w, http.StatusRequestEntityTooLarge, api.MsgBodyTooLarge)
				return
			}
			api.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		body = data
	}

	ctx, span := telemetry.StartSpan(r.Context(), "proxy."+strings.ToLower(method), telemetry.SpanAttributes{
		JobID:     chi.URLParam(r, "jobId"),
		Route:     path,
		Operation: method + " " + path,
	})
	defer span.End()

	resp, err := h.upstream.Forward(ctx, method, path, rawQuery, r.Header, body)
	if err != nil {
		h.transportFailure(w, span, failure, err)
		return
	}
	span.SetUpstreamStatus(resp.StatusCode)

	if bearer && resp.StatusCode == http.StatusUnauthorized {
		api.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	api.Relay(w, resp.StatusCode, resp.ContentType, resp.Body)
}

// transportFailure reports a failed backend call. SetError captures err to Sentry.
func (h *ProxyHandler) transportFailure(w http.ResponseWriter, span *telemetry.Span, message string, err error) {
	log.Printf("proxy: %s: %v", message, err)
	span.SetError(err)
	api.Error(w, http.StatusInternalServerError, message)
}

func userFromExtra(v any) (*domain.User, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
