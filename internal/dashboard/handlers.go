package dashboard

import (
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

// Get returns the agreement cards of a wallet
//
//	@Summary	Fetch the dashboard of a wallet
//	@Tags		dashboard
//	@Produce	json
//	@Param		wallet_address	path		string	true	"Address of the wallet"
//	@Success	200				{object}	common.Response
//	@Failure	400
//	@Router		/dashboard/{wallet_address} [get]
func (s *Service) Get(w http.ResponseWriter, r *http.Request) {
	wallet, err := com.AddressParam(r, "wallet_address")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	v, err := s.app.Views.Dashboard(r.Context(), wallet)
	if err != nil {
		w.WriteHeader(http.StatusRequestTimeout)
		return
	}

	err = com.Body(w, v, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
