// Package api defines the JSON response envelope shared by every endpoint.
package api

import (
	"encoding/json"
	"net/http"
)

// Envelope is the response shape for all API endpoints:
// {success, data?, error?, message?, pagination?}.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination accompanies paginated list responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes totalPages from total and limit.
func NewPagination(page, limit, total int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a success envelope. message may be empty.
func OK(w http.ResponseWriter, status int, data any, message string) {
	write(w, status, Envelope{Success: true, Data: data, Message: message})
}

// OKPage writes a success envelope with pagination.
func OKPage(w http.ResponseWriter, data any, p *Pagination) {
	write(w, http.StatusOK, Envelope{Success: true, Data: data, Pagination: p})
}

// Fail writes an error envelope with a short human-readable message.
func Fail(w http.ResponseWriter, status int, errMsg string) {
	write(w, status, Envelope{Success: false, Error: errMsg})
}
