package conditions

import (
	"encoding/json"
	"net/http"

	"github.com/agreementchain/agreements/internal/app"
	com "github.com/agreementchain/agreements/internal/common"
)

type Service struct {
	app *app.App
}

func NewService(a *app.App) *Service {
	return &Service{app: a}
}

type conditionRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type voteRequest struct {
	Approved *bool `json:"approved"`
}

// Pending returns condition additions and removals waiting for votes
//
//	@Summary	Fetch pending conditions
//	@Tags		conditions
//	@Produce	json
//	@Param		contract_address	path		string	true	"Agreement Contract Address"
//	@Param		account				query		string	false	"Reading account"
//	@Success	200					{object}	common.Response
//	@Failure	400
//	@Router		/contracts/{contract_address}/conditions/pending [get]
func (s *Service) Pending(w http.ResponseWriter, r *http.Request) {
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

	v, err := s.app.Views.PendingConditions(r.Context(), addr, account)
	if err != nil {
		w.WriteHeader(http.StatusRequestTimeout)
		return
	}

	err = com.Body(w, v, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Voters returns who voted on a condition and who proposed it
//
//	@Router	/contracts/{contract_address}/conditions/{key}/voters [get]
func (s *Service) Voters(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	v, err := s.app.Views.ConditionVoters(r.Context(), addr, com.URLParam(r, "key"), r.URL.Query().Get("tx"))
	if err != nil {
		w.WriteHeader(http.StatusRequestTimeout)
		return
	}

	err = com.Body(w, v, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Add proposes a new condition
//
//	@Router	/contracts/{contract_address}/conditions [post]
func (s *Service) Add(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req conditionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	res := s.app.Actions.AddCondition(r.Context(), addr, req.Key, req.Value)

	err = com.Body(w, res, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Remove proposes removing an active condition
//
//	@Router	/contracts/{contract_address}/conditions/{key} [delete]
func (s *Service) Remove(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res := s.app.Actions.RemoveCondition(r.Context(), addr, com.URLParam(r, "key"))

	err = com.Body(w, res, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Vote approves or rejects a pending condition
//
//	@Router	/contracts/{contract_address}/conditions/{condition_id}/vote [post]
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

	res := s.app.Actions.VoteOnCondition(r.Context(), addr, com.URLParam(r, "condition_id"), *req.Approved)

	err = com.Body(w, res, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
