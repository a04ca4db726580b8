package lab

import (
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

// ListAll godoc
// @Summary     List rentals including deleted
// @Tags        lab
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=[]domain.Lab}
// @Router      /lab [get]
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "lab.list_all", domain.LabFilter{}, "all rental requests")
}

// ListPending godoc
// @Summary     List rentals awaiting approval
// @Tags        lab
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=[]domain.Lab}
// @Router      /lab/pending [get]
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	approved := false
	h.list(w, r, "lab.list_pending",
		domain.LabFilter{Approved: &approved, ExcludeDeleted: true}, "pending rental requests")
}

// ListApproved godoc
// @Summary     List approved rentals
// @Tags        lab
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=[]domain.Lab}
// @Router      /lab/approved [get]
func (h *Handler) ListApproved(w http.ResponseWriter, r *http.Request) {
	approved := true
	h.list(w, r, "lab.list_approved",
		domain.LabFilter{Approved: &approved, ExcludeDeleted: true}, "approved rental requests")
}

// ListActive godoc
// @Summary     List non-deleted rentals
// @Tags        lab
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=[]domain.Lab}
// @Router      /lab/list [get]
func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, "lab.list_active",
		domain.LabFilter{ExcludeDeleted: true}, "active rental requests")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, op string, f domain.LabFilter, msg string) {
	reqID := mw.RequestIDFromCtx(r.Context())

	labs, err := h.Labs.ListLabs(r.Context(), f)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "count", len(labs))
	v1.WriteOK(w, r, msg, labs)
}

// GetOne godoc
// @Summary     Get rental by id
// @Tags        lab
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "lab rental id"
// @Success     200 {object} domain.APIEnvelope{data=domain.Lab}
// @Failure     404 {object} domain.APIEnvelope
// @Router      /lab/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "lab.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := parseID(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	l, err := h.Labs.LabByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err, "lab_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "lab_id", l.ID)
	v1.WriteOK(w, r, "rental request found", l)
}

// ByUser godoc
// @Summary     List rentals of a user
// @Tags        lab
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "user id"
// @Success     200 {object} domain.APIEnvelope{data=[]domain.Lab}
// @Router      /lab/user/{id} [get]
func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) {
	const op = "lab.by_user"
	reqID := mw.RequestIDFromCtx(r.Context())

	userID, err := parseID(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	labs, err := h.Labs.LabsByUser(r.Context(), userID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err, "user_id", userID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", userID, "count", len(labs))
	v1.WriteOK(w, r, "rental requests by user", labs)
}
