// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package restutil holds the helpers shared by the REST handlers.
package restutil

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/stakepad/launchpool/engine/reverts"
	"github.com/stakepad/launchpool/lp"
)

type httpError struct {
	cause  error
	status int
}

func (e *httpError) Error() string {
	return e.cause.Error()
}

func (e *httpError) Unwrap() error {
	return e.cause
}

// HTTPError creates an error with http status code.
func HTTPError(cause error, status int) error {
	return &httpError{
		cause:  cause,
		status: status,
	}
}

// BadRequest creates a 400 error.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

// Forbidden creates a 403 error.
func Forbidden(cause error) error {
	return HTTPError(cause, http.StatusForbidden)
}

// NotFound creates a 404 error.
func NotFound(cause error) error {
	return HTTPError(cause, http.StatusNotFound)
}

// RevertStatus maps a revert kind to the status it is answered with.
func RevertStatus(kind reverts.Kind) int {
	switch kind {
	case reverts.KindAuthorization:
		return http.StatusForbidden
	case reverts.KindNotFound:
		return http.StatusNotFound
	case reverts.KindLifecycle, reverts.KindInvariant:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// RevertBody is the json body of a rejected operation.
type RevertBody struct {
	Code    uint32 `json:"code"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// HandlerFunc is like http.HandlerFunc but returns an error.
// httpError and reverts are answered with their status, any other error with 500.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc converts HandlerFunc to http.HandlerFunc.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		var he *httpError
		if errors.As(err, &he) {
			if he.cause != nil {
				http.Error(w, he.cause.Error(), he.status)
			} else {
				w.WriteHeader(he.status)
			}
			return
		}
		if rev, ok := reverts.As(err); ok {
			w.Header().Set("Content-Type", JSONContentType)
			w.WriteHeader(RevertStatus(rev.Kind()))
			_ = json.NewEncoder(w).Encode(&RevertBody{
				Code:    rev.Code(),
				Name:    rev.Name(),
				Kind:    rev.Kind().String(),
				Message: err.Error(),
			})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// JSONContentType is the content type of every json response.
const JSONContentType = "application/json; charset=utf-8"

// ParseJSON parses a JSON object in strict mode.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON responds obj in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}

// M is a shortcut for map[string]any.
type M map[string]any

// ParseAddress parses a hex address path or query value named name.
func ParseAddress(name, s string) (lp.Address, error) {
	addr, err := lp.ParseAddress(s)
	if err != nil {
		return lp.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// ParseUint64 parses a decimal path or query value named name. An empty s yields def.
func ParseUint64(name, s string, def uint64) (uint64, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}
