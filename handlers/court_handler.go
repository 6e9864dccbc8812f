package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/padel-club/middleware"
	"github.com/Dosada05/padel-club/models"
	"github.com/Dosada05/padel-club/services"
)

type CourtHandler struct {
	courtService services.CourtService
}

func NewCourtHandler(cs services.CourtService) *CourtHandler {
	return &CourtHandler{
		courtService: cs,
	}
}

func (h *CourtHandler) ListCourts(w http.ResponseWriter, r *http.Request) {
	// По умолчанию отдаём только действующие корты. ?all=true работает
	// только для админа, остальным выключенные корты не показываем.
	onlyActive := true
	if r.URL.Query().Get("all") == "true" {
		if role, err := middleware.GetUserRoleFromContext(r.Context()); err == nil && role == models.RoleAdmin {
			onlyActive = false
		}
	}

	courts, err := h.courtService.List(r.Context(), onlyActive)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"courts": courts,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourtHandler) GetCourtByID(w http.ResponseWriter, r *http.Request) {
	courtID, err := getIDFromURL(r, "courtID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	court, err := h.courtService.GetByID(r.Context(), courtID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"court": court,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourtHandler) CreateCourt(w http.ResponseWriter, r *http.Request) {
	var input services.CourtInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	court, err := h.courtService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"court": court,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourtHandler) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	courtID, err := getIDFromURL(r, "courtID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.CourtInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	court, err := h.courtService.Update(r.Context(), courtID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"court": court,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *CourtHandler) DeactivateCourt(w http.ResponseWriter, r *http.Request) {
	courtID, err := getIDFromURL(r, "courtID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.courtService.Deactivate(r.Context(), courtID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CourtHandler) UploadCourtPhoto(w http.ResponseWriter, r *http.Request) {
	courtID, err := getIDFromURL(r, "courtID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		badRequestResponse(w, r, errors.New("content type required"))
		return
	}

	court, err := h.courtService.UploadPhoto(r.Context(), courtID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"court": court,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
