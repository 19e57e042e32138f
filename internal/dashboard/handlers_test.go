package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agreementchain/agreements/internal/apptest"
	"github.com/agreementchain/agreements/pkg/views"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type response struct {
	ResponseType string              `json:"response_type"`
	Object       views.DashboardView `json:"object"`
}

func serve(s *Service, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/dashboard/{wallet_address}", s.Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGet(t *testing.T) {
	f := apptest.New(t, false)
	s := NewService(f.App)

	rec := serve(s, "/dashboard/"+apptest.Alice.Hex())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "object", resp.ResponseType)
	require.False(t, resp.Object.Loading)
	require.Len(t, resp.Object.Agreements, 1)

	card := resp.Object.Agreements[0]
	require.Equal(t, apptest.Contract.Hex(), card.Address)
	require.Equal(t, "Lease", card.Title)
	require.Equal(t, "Active", card.StateLabel)

	require.Contains(t, f.App.Watcher.Watched(), apptest.Contract)
}

func TestGetFailedRead(t *testing.T) {
	f := apptest.New(t, false)
	f.EVM.Fail(apptest.Factory, "getStakeholderAgreements", errors.New("node down"))

	rec := serve(NewService(f.App), "/dashboard/"+apptest.Alice.Hex())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Object.Loading)
	require.Empty(t, resp.Object.Agreements)
}

func TestGetBadAddress(t *testing.T) {
	f := apptest.New(t, false)

	rec := serve(NewService(f.App), "/dashboard/nope")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
