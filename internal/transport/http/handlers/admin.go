package handlers

import (
	"net/http"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/application/recommend"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/dto"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/response"
)

type AdminHandler struct {
	svc *recommend.Service
}

func NewAdminHandler(svc *recommend.Service) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// SyncEmbeddings pushes the full published catalog to the scoring service.
// The operation is idempotent on the scoring side; re-running it only
// uploads videos the index does not know yet.
func (h *AdminHandler) SyncEmbeddings(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.SyncEmbeddings(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToSyncResp(res))
}

// ScoringHealth reports the scoring service's live status. It is informational
// only; feed and similar requests never consult it.
func (h *AdminHandler) ScoringHealth(w http.ResponseWriter, r *http.Request) {
	health, err := h.svc.ScoringHealth(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToScoringHealthResp(health))
}
