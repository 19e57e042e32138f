package common

import (
	"net/http"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
)

// URLParam returns the unescaped url param. Condition keys may contain
// spaces.
func URLParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)

	u, err := url.PathUnescape(v)
	if err != nil {
		return v
	}

	return u
}

// AddressParam parses the url param key as an address.
func AddressParam(r *http.Request, key string) (common.Address, error) {
	return ParseAddress(URLParam(r, key))
}

// AccountQuery returns the optional account query value, checksummed.
func AccountQuery(r *http.Request) (string, error) {
	acc := r.URL.Query().Get("account")
	if acc == "" {
		return "", nil
	}

	addr, err := ParseAddress(acc)
	if err != nil {
		return "", err
	}

	return addr.Hex(), nil
}
