package authapimodels

import (
	"strings"

	apimodels "noblelift-backend/models/api"
)

type JWTResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type JWTRefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

func (r *JWTRefreshRequest) Validate() error {
	r.Refresh = strings.TrimSpace(r.Refresh)
	return apimodels.ValidateStruct(r)
}
