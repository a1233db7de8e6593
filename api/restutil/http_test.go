// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package restutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stakepad/launchpool/engine/reverts"
)

func serve(f HandlerFunc) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	WrapHandlerFunc(f)(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	return rr
}

func TestWrapHandlerFunc(t *testing.T) {
	rr := serve(func(w http.ResponseWriter, _ *http.Request) error {
		return WriteJSON(w, M{"ok": true})
	})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, JSONContentType, rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())

	rr = serve(func(http.ResponseWriter, *http.Request) error {
		return BadRequest(errors.New("bad input"))
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "bad input")

	rr = serve(func(http.ResponseWriter, *http.Request) error {
		return errors.New("boom")
	})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRevertResponse(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{reverts.ErrUnauthorized, http.StatusForbidden},
		{reverts.ErrLaunchpoolNotFound, http.StatusNotFound},
		{reverts.ErrLaunchpoolNotLaunched, http.StatusConflict},
		{reverts.ErrStakeBelowMinimum, http.StatusBadRequest},
		{reverts.ErrMintHasFreezeAuthority, http.StatusBadRequest},
		{errors.WithMessage(reverts.ErrStakeOverflow, "open"), http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rr := serve(func(http.ResponseWriter, *http.Request) error { return tt.err })
			assert.Equal(t, tt.status, rr.Code)

			var body RevertBody
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			rev, ok := reverts.As(tt.err)
			require.True(t, ok)
			assert.Equal(t, rev.Code(), body.Code)
			assert.Equal(t, rev.Name(), body.Name)
		})
	}
}

func TestParseHelpers(t *testing.T) {
	v, err := ParseUint64("limit", "", 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v)

	_, err = ParseUint64("limit", "x", 10)
	var he *httpError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.status)

	_, err = ParseAddress("pool", "0xzz")
	require.ErrorAs(t, err, &he)
}
