package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"blogapi/app/middleware"
	"blogapi/app/models"
	"blogapi/app/repositories"
	"blogapi/app/services"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// responder holds the response helpers shared by all controllers.
type responder struct {
	logger *slog.Logger
}

func (rs responder) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("failed to encode response", "error", err)
	}
}

func (rs responder) sendError(w http.ResponseWriter, message string, status int) {
	rs.sendJSON(w, status, map[string]string{"error": message})
}

// handleError maps a service error to a response. notFound is the message
// used when err wraps repositories.ErrNotFound.
func (rs responder) handleError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		rs.sendJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	case errors.Is(err, repositories.ErrNotFound):
		rs.sendError(w, notFound, http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidCredentials):
		rs.sendError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, services.ErrMailDelivery):
		rs.sendError(w, services.ErrMailDelivery.Error(), http.StatusBadGateway)
	default:
		rs.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
		)
		rs.sendError(w, "internal server error", http.StatusInternalServerError)
	}
}

// decodeJSON reads the request body into v, answering 400 itself when the
// body is not valid JSON. It reports whether decoding succeeded.
func (rs responder) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	if errors.Is(err, io.EOF) {
		rs.sendError(w, "invalid JSON: request body is empty", http.StatusBadRequest)
		return false
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		rs.sendError(w, "request body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	rs.sendError(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
	return false
}

// pageParams reads the 1-based page number and page size. Missing or
// malformed values become zero, which selects the defaults.
func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	return queryInt(q, "page"), queryInt(q, "page_size")
}

func queryInt(q url.Values, key string) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0
	}
	return n
}

// sendPage writes a paginated listing with absolute next/previous links.
func (rs responder) sendPage(w http.ResponseWriter, r *http.Request, page *models.Page[*models.Post]) {
	if page.Results == nil {
		page.Results = []*models.Post{}
	}
	if page.HasNext() {
		page.Next = pageURL(r, page.Number+1)
	}
	if page.HasPrevious() {
		page.Previous = pageURL(r, page.Number-1)
	}
	rs.sendJSON(w, http.StatusOK, page)
}

// pageURL returns the request URL pointing at another page. The first page
// is addressed without a page parameter.
func pageURL(r *http.Request, number int) *string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	q := r.URL.Query()
	if number <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	u := url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: q.Encode(),
	}
	s := u.String()
	return &s
}

func currentUser(r *http.Request) (*models.User, error) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		return nil, fmt.Errorf("no authenticated user on %s", r.URL.Path)
	}
	return user, nil
}
