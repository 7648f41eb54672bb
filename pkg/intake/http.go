package intake

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/n1protocol/portal/pkg/app/errors"
	apphttp "github.com/n1protocol/portal/pkg/app/http"
	"github.com/n1protocol/portal/pkg/portalstore"
)

const maxBodyBytes = 1 << 20 // 1MB

// HTTP wraps the Service to provide the public HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the public endpoints on the given chi router
func RegisterRoutes(r chi.Router, service Service, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/donations", apphttp.HandleError(h.recordDonation))
	r.Get("/donations", apphttp.HandleError(h.listDonations))
	r.Get("/donation-options", apphttp.HandleError(h.donationOptions))

	r.Post("/ledger", apphttp.HandleError(h.submitStory))
	r.Get("/ledger", apphttp.HandleError(h.listStories))
	r.Get("/ledger/{id}", apphttp.HandleError(h.getStory))
	r.Post("/ledger/{id}/heart", apphttp.HandleError(h.heartStory))

	r.Post("/prescribers/apply", apphttp.HandleError(h.applyPrescriber))
	r.Get("/prescribers", apphttp.HandleError(h.listPrescribers))

	r.Post("/feedback", apphttp.HandleError(h.submitFeedback))
	r.Post("/team", apphttp.HandleError(h.applyTeam))
	r.Post("/email-signups", apphttp.HandleError(h.signupEmail))
}

func (h *HTTP) recordDonation(w http.ResponseWriter, r *http.Request) error {
	var req DonationRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	d, err := h.service.RecordDonation(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, d)
	return nil
}

func (h *HTTP) listDonations(w http.ResponseWriter, r *http.Request) error {
	donations, err := h.service.ListWallDonations(r.Context(), queryInt(r, "limit"))
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, donations)
	return nil
}

func (h *HTTP) donationOptions(w http.ResponseWriter, r *http.Request) error {
	options, err := h.service.DonationOptions(r.Context())
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, options)
	return nil
}

func (h *HTTP) submitStory(w http.ResponseWriter, r *http.Request) error {
	var req StoryRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	entry, err := h.service.SubmitStory(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, entry)
	return nil
}

func (h *HTTP) listStories(w http.ResponseWriter, r *http.Request) error {
	sort := portalstore.SortNewest
	if r.URL.Query().Get("sort") == "loved" {
		sort = portalstore.SortLoved
	}

	entries, err := h.service.ListStories(r.Context(), sort, queryInt(r, "limit"))
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, entries)
	return nil
}

func (h *HTTP) getStory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	entry, err := h.service.GetStory(r.Context(), id)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, entry)
	return nil
}

func (h *HTTP) heartStory(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	entry, err := h.service.HeartStory(r.Context(), id)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, entry)
	return nil
}

func (h *HTTP) applyPrescriber(w http.ResponseWriter, r *http.Request) error {
	var req PrescriberApplication
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	p, err := h.service.ApplyPrescriber(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, p)
	return nil
}

func (h *HTTP) listPrescribers(w http.ResponseWriter, r *http.Request) error {
	q := portalstore.PrescriberQuery{
		State: r.URL.Query().Get("state"),
		City:  r.URL.Query().Get("city"),
	}
	if v := r.URL.Query().Get("telemedicine"); v != "" {
		b := v == "true"
		q.Telemedicine = &b
	}
	if v := r.URL.Query().Get("insurance"); v != "" {
		b := v == "true"
		q.Insurance = &b
	}

	listed, err := h.service.ListPrescribers(r.Context(), q)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, listed)
	return nil
}

func (h *HTTP) submitFeedback(w http.ResponseWriter, r *http.Request) error {
	var req FeedbackRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	f, err := h.service.SubmitFeedback(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, f)
	return nil
}

func (h *HTTP) applyTeam(w http.ResponseWriter, r *http.Request) error {
	var req TeamRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	app, err := h.service.ApplyTeam(r.Context(), &req)
	if err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusCreated, app)
	return nil
}

func (h *HTTP) signupEmail(w http.ResponseWriter, r *http.Request) error {
	var req EmailSignupRequest
	if err := decodeBody(r, &req); err != nil {
		return err
	}

	if err := h.service.SignupEmail(r.Context(), &req); err != nil {
		return err
	}

	apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
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

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, apperrors.BadRequestError(err, "invalid id")
	}
	return id, nil
}
