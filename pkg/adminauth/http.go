package adminauth

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/n1protocol/portal/internal/metrics"
	apperrors "github.com/n1protocol/portal/pkg/app/errors"
	apphttp "github.com/n1protocol/portal/pkg/app/http"
)

// HTTP wraps the Guard with session endpoints.
type HTTP struct {
	guard  *Guard
	logger *zap.Logger
}

// RegisterRoutes registers the session endpoints on the given chi router:
// POST /admin/auth (login), DELETE /admin/auth (logout), GET /admin/auth
// (session status). Login is the only admin endpoint not behind the guard.
func RegisterRoutes(r chi.Router, guard *Guard, logger *zap.Logger) {
	h := &HTTP{guard: guard, logger: logger}

	r.Post("/admin/auth", apphttp.HandleError(h.login))
	r.Delete("/admin/auth", apphttp.HandleError(h.logout))
	r.Get("/admin/auth", apphttp.HandleError(h.status))
}

type loginRequest struct {
	HashedPassword string `json:"hashedPassword"`
}

func (h *HTTP) login(w http.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		return apperrors.BadRequestError(err, "failed to read request")
	}

	var req loginRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}

	if err := h.guard.Login(w, req.HashedPassword); err != nil {
		metrics.AdminAuthTotal.WithLabelValues("rejected").Inc()
		h.logger.Warn("admin login rejected")
		return err
	}

	metrics.AdminAuthTotal.WithLabelValues("ok").Inc()
	h.logger.Info("admin session issued")
	apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	return nil
}

func (h *HTTP) logout(w http.ResponseWriter, _ *http.Request) error {
	h.guard.Logout(w)
	apphttp.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	return nil
}

func (h *HTTP) status(w http.ResponseWriter, r *http.Request) error {
	apphttp.WriteJSON(w, http.StatusOK, map[string]bool{
		"authenticated": h.guard.Check(r),
	})
	return nil
}

// apphttpError writes the standard 401 envelope from middleware, where no
// error-returning handler wraps us.
func apphttpError(w http.ResponseWriter) {
	apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(nil, "unauthorized"))
}
