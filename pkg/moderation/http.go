package moderation

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/n1protocol/portal/pkg/adminauth"
	apperrors "github.com/n1protocol/portal/pkg/app/errors"
	apphttp "github.com/n1protocol/portal/pkg/app/http"
	"github.com/n1protocol/portal/pkg/portal"
	"github.com/n1protocol/portal/pkg/portalstore"
)

const maxBodyBytes = 1 << 20 // 1MB

// HTTP wraps the Service to provide the admin HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes mounts the admin endpoints behind the session guard. The
// guard middleware runs before any handler, so an unauthenticated request is
// refused before a single store call is made.
func RegisterRoutes(r chi.Router, service Service, guard *adminauth.Guard, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Group(func(r chi.Router) {
		r.Use(guard.Require)

		r.Get("/admin/stats", apphttp.HandleError(h.stats))

		r.Get("/admin/ledger", apphttp.HandleError(h.listLedger))
		r.Patch("/admin/ledger/{id}", apphttp.HandleError(h.moderateLedger))
		r.Delete("/admin/ledger/{id}", apphttp.HandleError(h.deleteLedger))

		r.Get("/admin/prescribers", apphttp.HandleError(h.listPrescribers))
		r.Post("/admin/prescribers", apphttp.HandleError(h.addPrescriber))
		r.Patch("/admin/prescribers/{id}", apphttp.HandleError(h.moderatePrescriber))
		r.Delete("/admin/prescribers/{id}", apphttp.HandleError(h.deletePrescriber))

		r.Get("/admin/feedback", apphttp.HandleError(h.listFeedback))
		r.Patch("/admin/feedback/{id}", apphttp.HandleError(h.moderateFeedback))
		r.Delete("/admin/feedback/{id}", apphttp.HandleError(h.deleteFeedback))

		r.Get("/admin/team", apphttp.HandleError(h.listTeam))
		r.Delete("/admin/team/{id}", apphttp.HandleError(h.deleteTeam))
	})
}

type actionRequest struct {
	Action string `json:"action"`
}

type updateResponse struct {
	Success bool `json:"success"`
	Entity  any  `json:"entity,omitempty"`
}

func (h *HTTP) stats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, stats)
	return nil
}

func (h *HTTP) listLedger(w http.ResponseWriter, r *http.Request) error {
	q := portalstore.LedgerQuery{
		Status: portal.ModerationStatus(r.URL.Query().Get("status")),
	}

	entries, err := h.service.ListLedgerEntries(r.Context(), q)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, entries)
	return nil
}

func (h *HTTP) moderateLedger(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	entry, err := h.service.ModerateLedgerEntry(r.Context(), id, req.Action)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, updateResponse{Success: true, Entity: entry})
	return nil
}

func (h *HTTP) deleteLedger(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.service.DeleteLedgerEntry(r.Context(), id); err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, updateResponse{Success: true})
	return nil
}

func (h *HTTP) listPrescribers(w http.ResponseWriter, r *http.Request) error {
	q := portalstore.PrescriberQuery{
		Status: portal.PrescriberStatus(r.URL.Query().Get("status")),
		State:  r.URL.Query().Get("state"),
	}

	listed, err := h.service.ListPrescribers(r.Context(), q)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, listed)
	return nil
}

func (h *HTTP) addPrescriber(w http.ResponseWriter, r *http.Request) error {
	var p portal.Prescriber
	if err := decodeBody(r, &p); err != nil {
		return err
	}

	created, err := h.service.AddPrescriber(r.Context(), &p)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, created)
	return nil
}

func (h *HTTP) moderatePrescriber(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	p, err := h.service.ModeratePrescriber(r.Context(), id, req.Action)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, updateResponse{Success: true, Entity: p})
	return nil
}

func (h *HTTP) deletePrescriber(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.service.DeletePrescriber(r.Context(), id); err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, updateResponse{Success: true})
	return nil
}

func (h *HTTP) listFeedback(w http.ResponseWriter, r *http.Request) error {
	q := portalstore.FeedbackQuery{
		Status: portal.FeedbackStatus(r.URL.Query().Get("status")),
	}

	listed, err := h.service.ListFeedback(r.Context(), q)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, listed)
	return nil
}

func (h *HTTP) moderateFeedback(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	f, err := h.service.ModerateFeedback(r.Context(), id, req.Action)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, updateResponse{Success: true, Entity: f})
	return nil
}

func (h *HTTP) deleteFeedback(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.service.DeleteFeedback(r.Context(), id); err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, updateResponse{Success: true})
	return nil
}

func (h *HTTP) listTeam(w http.ResponseWriter, r *http.Request) error {
	listed, err := h.service.ListTeamApplications(r.Context())
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, listed)
	return nil
}

func (h *HTTP) deleteTeam(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTeamApplication(r.Context(), id); err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, updateResponse{Success: true})
	return nil
}

func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperrors.BadRequestError(err, "invalid id")
	}
	return id, nil
}
