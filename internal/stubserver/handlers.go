package stubserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/silverrose/clinicforms/internal/form"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type createdResponse struct {
	Status string `json:"status"`
}

func createAppointmentHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req form.AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := store.AddAppointment(req); err != nil {
			handleStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, createdResponse{Status: "created"})
	}
}

func createContactHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req form.ContactRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if err := store.AddContact(req); err != nil {
			handleStoreError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, createdResponse{Status: "created"})
	}
}

func listAppointmentsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Appointments())
	}
}

func listContactsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Contacts())
	}
}

func handleStoreError(w http.ResponseWriter, err error) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		writeError(w, http.StatusBadRequest, "validation_error", rejected.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
