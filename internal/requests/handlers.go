package requests

import (
	"encoding/json"
	"net/http"

	"github.com/agreementchain/agreements/internal/app"
	com "github.com/agreementchain/agreements/internal/common"
	"github.com/agreementchain/agreements/pkg/views"
)

type Service struct {
	app *app.App
}

func NewService(a *app.App) *Service {
	return &Service{app: a}
}

type voteRequest struct {
	Approved *bool `json:"approved"`
}

// List returns the pending stakeholder and state change requests
//
//	@Summary	Fetch pending requests
//	@Tags		requests
//	@Produce	json
//	@Param		contract_address	path		string	true	"Agreement Contract Address"
//	@Param		account				query		string	false	"Reading account"
//	@Param		sort				query		string	false	"asc or desc"
//	@Success	200					{object}	common.Response
//	@Failure	400
//	@Router		/contracts/{contract_address}/requests [get]
func (s *Service) List(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	account, err := com.AccountQuery(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	sort, err := views.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	v, err := s.app.Views.PendingRequests(r.Context(), addr, account, sort)
	if err != nil {
		w.WriteHeader(http.StatusRequestTimeout)
		return
	}

	err = com.Body(w, v, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Get returns the voters and origin of one request
//
//	@Router	/contracts/{contract_address}/requests/{action_id} [get]
func (s *Service) Get(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	account, err := com.AccountQuery(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	actionID := com.URLParam(r, "action_id")
	txHash := r.URL.Query().Get("tx")

	v, err := s.app.Views.RequestDetails(r.Context(), addr, actionID, txHash, account)
	if err != nil {
		w.WriteHeader(http.StatusRequestTimeout)
		return
	}

	err = com.Body(w, v, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Vote approves or rejects a request
//
//	@Router	/contracts/{contract_address}/requests/{action_id}/vote [post]
func (s *Service) Vote(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Approved == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	res := s.app.Actions.VoteOnAction(r.Context(), addr, com.URLParam(r, "action_id"), *req.Approved)

	err = com.Body(w, res, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
