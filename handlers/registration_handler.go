package handlers

import (
	"errors"
	"net/http"

	"github.com/salillakra/e-summit26-sub001/middleware"
	"github.com/salillakra/e-summit26-sub001/services"
)

const maxUploadBytes = 20 << 20 // 20MB

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: rs}
}

func (h *RegistrationHandler) RegisterTeamForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.RegisterTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// The URL names the event; a body that names a different one is a
	// client bug, not a choice.
	if input.EventID != 0 && input.EventID != eventID {
		badRequestResponse(w, r, errors.New("event_id in body does not match the event in the URL"))
		return
	}
	input.EventID = eventID

	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	registration, err := h.registrationService.RegisterTeamForEvent(r.Context(), input, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"registration": registration}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadSubmissionAsset accepts a multipart file and returns the public URL
// to reference from the registration payload.
func (h *RegistrationHandler) UploadSubmissionAsset(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.GetUserIDFromContext(r.Context()); err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form or file too large"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("file field is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.registrationService.UploadSubmissionAsset(r.Context(), header.Filename, contentType, file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"url": url}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
