package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/padel-club/services"
)

type AvailabilityHandler struct {
	availabilityService services.AvailabilityService
}

func NewAvailabilityHandler(as services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: as,
	}
}

// GetCourtAvailability отдаёт расписание одного корта на дату ?date=YYYY-MM-DD.
func (h *AvailabilityHandler) GetCourtAvailability(w http.ResponseWriter, r *http.Request) {
	courtID, err := getIDFromURL(r, "courtID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		badRequestResponse(w, r, errors.New("query parameter 'date' is required"))
		return
	}

	availability, err := h.availabilityService.CourtAvailability(r.Context(), courtID, date)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"availability": availability,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetClubAvailability отдаёт расписание всех действующих кортов на дату.
func (h *AvailabilityHandler) GetClubAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		badRequestResponse(w, r, errors.New("query parameter 'date' is required"))
		return
	}

	availability, err := h.availabilityService.ClubAvailability(r.Context(), date)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"availability": availability,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
