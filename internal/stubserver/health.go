package stubserver

import "net/http"

type HealthHandler struct {
	store   *Store
	env     string
	version string
}

func NewHealthHandler(store *Store, env, version string) *HealthHandler {
	return &HealthHandler{store: store, env: env, version: version}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version,omitempty"`
	Env          string `json:"env,omitempty"`
	Appointments int    `json:"appointments"`
	Contacts     int    `json:"contacts"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

// Readiness always reports ok; the stub has no external dependencies. The
// stored counts are included so the simulator can sanity-check deliveries.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	appointments, contacts := h.store.Counts()
	writeJSON(w, http.StatusOK, ReadinessResponse{
		Status:       "ok",
		Version:      h.version,
		Env:          h.env,
		Appointments: appointments,
		Contacts:     contacts,
	})
}
