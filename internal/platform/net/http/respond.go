// Package http provides helpers for writing JSON responses
// success bodies are written bare; errors share one envelope
package http

import (
	stdhttp "net/http"
	"strconv"

	json "github.com/goccy/go-json"

	lumnet "lorebook/internal/platform/net"
)

// Pagination headers set by List
const (
	HeaderPageIndex = "X-Pagination-Page-Index"
	HeaderPageSize  = "X-Pagination-Page-Size"
	HeaderPageTotal = "X-Pagination-Page-Total"
	HeaderItemTotal = "X-Pagination-Item-Total"
)

// PaginationHeaders lists the headers browsers must be allowed to read
var PaginationHeaders = []string{HeaderPageIndex, HeaderPageSize, HeaderPageTotal, HeaderItemTotal}

// Envelope is the error body for all endpoints
type Envelope = lumnet.Wire

// Page describes pagination when returning lists
type Page struct {
	Index      int
	Size       int
	TotalPages int
	TotalItems int
}

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError maps a project error into an envelope and writes it
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, env := lumnet.Error(err, lumnet.RequestID(r.Context()))
	JSON(w, status, env)
}

// Response is a functional response object for return-style handlers
type Response struct {
	Status int
	Body   any
	// optional headers if a handler wants to add any
	Header stdhttp.Header
}

// WithHeader returns a copy of resp with k set to v
func (resp Response) WithHeader(k, v string) Response {
	h := stdhttp.Header{}
	for hk, vv := range resp.Header {
		h[hk] = append([]string(nil), vv...)
	}
	h.Set(k, v)
	resp.Header = h
	return resp
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	// error bodies carry their own status and skip handler headers
	if err, ok := resp.Body.(error); ok && err != nil {
		RespondError(w, r, err)
		return
	}

	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(stdhttp.StatusNoContent)
		return
	}
	JSON(w, status, resp.Body)
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created returns a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response that maps the error to status and envelope
func Error(err error) Response { return Response{Body: err} }

// Localized returns a 200 response for a single resource in lang
func Localized(data any, lang string) Response {
	resp := OK(data)
	if lang == "" {
		return resp
	}
	return resp.WithHeader("Content-Language", lang)
}

// List returns a 200 response with items as the body and pagination in headers
func List(items any, p Page) Response {
	h := stdhttp.Header{}
	h.Set(HeaderPageIndex, strconv.Itoa(p.Index))
	h.Set(HeaderPageSize, strconv.Itoa(p.Size))
	h.Set(HeaderPageTotal, strconv.Itoa(p.TotalPages))
	h.Set(HeaderItemTotal, strconv.Itoa(p.TotalItems))
	return Response{Status: stdhttp.StatusOK, Body: items, Header: h}
}
