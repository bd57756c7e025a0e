// Package httpkit is the HTTP surface modules build on
// handlers and routers come from internal/platform/net/http under shorter names
package httpkit

import (
	"net/http"

	phttp "lorebook/internal/platform/net/http"
)

type (
	Envelope = phttp.Envelope
	Page     = phttp.Page
	Response = phttp.Response
	Handler  = phttp.Handler
	Router   = phttp.Router
)

// Created is a 201 with data as the body
func Created(data any) Response { return phttp.Created(data) }

// NoContent is a 204
func NoContent() Response { return phttp.NoContent() }

// List writes items as the body and p as pagination headers
func List(items any, p Page) Response { return phttp.List(items, p) }

// Localized is a 200 carrying Content-Language: lang
func Localized(data any, lang string) Response { return phttp.Localized(data, lang) }

// Param returns the route parameter key, eg "id" in "/{id}"
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }

// Get mounts a handler that reads no body; a returned Response is written as is, anything else is a 200
func Get(r Router, path string, h func(*http.Request) (any, error)) { phttp.GetJSON(r, path, h) }

// Delete is Get for DELETE
func Delete(r Router, path string, h func(*http.Request) (any, error)) { phttp.DeleteJSON(r, path, h) }

// PostJSON mounts a handler fed the bound and validated body T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// PutJSON is PostJSON for PUT
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PutJSON(r, path, h)
}

// PatchJSON is PostJSON for PATCH
func PatchJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PatchJSON(r, path, h)
}
