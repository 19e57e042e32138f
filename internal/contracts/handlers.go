package contracts

import (
	"encoding/json"
	"net/http"

	"github.com/agreementchain/agreements/internal/app"
	com "github.com/agreementchain/agreements/internal/common"
	"github.com/agreementchain/agreements/pkg/agreement"
)

type Service struct {
	app *app.App
}

func NewService(a *app.App) *Service {
	return &Service{app: a}
}

type stakeholderRequest struct {
	Address string `json:"address"`
}

type stateRequest struct {
	Action string `json:"action"`
}

// Get returns the info of an agreement
//
//	@Summary	Fetch an agreement
//	@Tags		contracts
//	@Produce	json
//	@Param		contract_address	path		string	true	"Agreement Contract Address"
//	@Success	200					{object}	common.Response
//	@Failure	400
//	@Router		/contracts/{contract_address} [get]
func (s *Service) Get(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	v, err := s.app.Views.Contract(r.Context(), addr)
	if err != nil {
		w.WriteHeader(http.StatusRequestTimeout)
		return
	}

	err = com.Body(w, v, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// Create deploys a new agreement through the factory
//
//	@Summary	Create an agreement
//	@Tags		contracts
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	common.Response
//	@Failure	400
//	@Failure	401
//	@Router		/agreements [post]
func (s *Service) Create(w http.ResponseWriter, r *http.Request) {
	var req agreement.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	res := s.app.Actions.CreateAgreement(r.Context(), &req)

	err := com.Body(w, res, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// AddStakeholder proposes a new stakeholder
//
//	@Router	/contracts/{contract_address}/stakeholders [post]
func (s *Service) AddStakeholder(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req stakeholderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	res := s.app.Actions.AddStakeholder(r.Context(), addr, req.Address)

	err = com.Body(w, res, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// RemoveStakeholder proposes removing a stakeholder
//
//	@Router	/contracts/{contract_address}/stakeholders/{address} [delete]
func (s *Service) RemoveStakeholder(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res := s.app.Actions.RemoveStakeholder(r.Context(), addr, com.URLParam(r, "address"))

	err = com.Body(w, res, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// ChangeState proposes pausing, resuming or cancelling an agreement
//
//	@Router	/contracts/{contract_address}/state [post]
func (s *Service) ChangeState(w http.ResponseWriter, r *http.Request) {
	addr, err := com.AddressParam(r, "contract_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req stateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	t, err := agreement.ParseStateAction(req.Action)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	res := s.app.Actions.ChangeState(r.Context(), addr, t)

	err = com.Body(w, res, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
