package version

import (
	"net/http"

	"github.com/agreementchain/agreements/internal/common"
	"github.com/agreementchain/agreements/pkg/agreement"
)

type Service struct {
	chainID string
}

func NewService(chainID string) *Service {
	return &Service{chainID: chainID}
}

type response struct {
	Version string `json:"version"`
	ChainID string `json:"chain_id"`
}

// Current returns the current version of the API
func (s *Service) Current(w http.ResponseWriter, r *http.Request) {
	err := common.Body(w, &response{Version: agreement.Version, ChainID: s.chainID}, nil)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}
