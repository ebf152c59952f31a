package handlers

import (
	"net/http"

	"github.com/salillakra/e-summit26-sub001/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: ls}
}

// GetLeaderboard is a public read projection. The response is briefly
// cacheable; it only has to reflect a recent snapshot.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	includeMembers := r.URL.Query().Get("includeMembers") == "true"

	leaderboard, err := h.leaderboardService.GetLeaderboard(r.Context(), eventID, includeMembers)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := http.Header{}
	headers.Set("Cache-Control", "public, max-age=30")

	if err := writeJSON(w, http.StatusOK, leaderboard, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}
