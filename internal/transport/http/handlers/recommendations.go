package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/application/recommend"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/dto"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/middleware"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/response"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/transport/http/validate"
)

type RecommendationsHandler struct {
	svc *recommend.Service
}

func NewRecommendationsHandler(svc *recommend.Service) *RecommendationsHandler {
	return &RecommendationsHandler{svc: svc}
}

// Feed serves the personalized feed for the authenticated user.
func (h *RecommendationsHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	if userID == "" {
		response.Err(w, r, domain.ErrForbidden("missing user identity"))
		return
	}

	q := r.URL.Query()
	limit, err := parseLimit(q.Get("limit"))
	if err != nil {
		response.Err(w, r, err)
		return
	}

	// exclude is an optional override of the computed exclusion set.
	// Absent means "use watch/like history"; present (even empty) replaces it.
	var excludeOverride []string
	if raw, ok := q["exclude"]; ok {
		excludeOverride = []string{}
		for _, chunk := range raw {
			for _, id := range strings.Split(chunk, ",") {
				if id = strings.TrimSpace(id); id != "" {
					excludeOverride = append(excludeOverride, id)
				}
			}
		}
	}

	res, err := h.svc.GetPersonalized(r.Context(), userID, limit, excludeOverride)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Data(w, http.StatusOK, dto.ToFeedResp(res))
}

// Similar serves content-similar videos for one public video.
func (h *RecommendationsHandler) Similar(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video_id")
	if !validate.IsUUID(videoID) {
		response.Err(w, r, domain.ErrValidationMeta("invalid path param", map[string]string{
			"video_id": "must be uuid",
		}))
		return
	}

	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		response.Err(w, r, err)
		return
	}

	res, err := h.svc.GetSimilar(r.Context(), videoID, limit)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	response.Data(w, http.StatusOK, dto.ToSimilarResp(res))
}

// parseLimit returns 0 for an absent limit so the service applies its default.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.ErrValidationMeta("invalid query param", map[string]string{
			"limit": "must be a non-negative integer",
		})
	}
	return n, nil
}
