package lab

import (
	"encoding/json"
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

type updateLabRequest struct {
	ApprovalRental *bool   `json:"approvalRental,omitempty"`
	LabName        *string `json:"labName,omitempty"`
}

// Update godoc
// @Summary     Update rental (admin)
// @Description Одобрение заявки и/или перенос в другую лабораторию.
// @Description Удалённую заявку менять нельзя.
// @Tags        lab
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "lab rental id"
// @Param       request body updateLabRequest true "изменяемые поля"
// @Success     200 {object} domain.APIEnvelope{data=domain.Lab}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /lab/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "lab.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := parseID(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var req updateLabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.ApprovalRental == nil && req.LabName == nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	cur, err := h.Labs.LabByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err, "lab_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}
	if cur.DeletionRental {
		logx.Error(h.Log, reqID, op, "rental already deleted", domain.ErrDeletedLab, "lab_id", id)
		v1.WriteDomainError(w, r, domain.ErrDeletedLab)
		return
	}

	upd := domain.LabUpdate{
		ApprovalRental: req.ApprovalRental,
		LabName:        req.LabName,
	}
	l, err := h.Labs.UpdateLab(r.Context(), id, upd)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "lab_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "lab_id", l.ID)
	v1.WriteOK(w, r, "rental request updated", l)
}

// DeleteAll godoc
// @Summary     Soft-delete all rentals (admin)
// @Description Помечает все живые заявки удалёнными и сбрасывает флаг
// @Description аренды у владельцев.
// @Tags        lab
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope
// @Router      /lab [delete]
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	const op = "lab.delete_all"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start")

	n, err := Sweep(r.Context(), h.Labs, h.Users, h.Log)
	if err != nil {
		logx.Error(h.Log, reqID, op, "sweep failed", err, "swept", n)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "swept", n)
	v1.WriteOK(w, r, "rental requests deleted", map[string]int{"deleted": n})
}
