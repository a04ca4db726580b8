package lab

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

type createLabRequest struct {
	RentalDate      string `json:"rentalDate"` // YYYY-MM-DD
	RentalUser      string `json:"rentalUser"`
	RentalUsers     string `json:"rentalUsers"`
	RentalPurpose   string `json:"rentalPurpose"`
	RentalStartTime string `json:"rentalStartTime"`
	LabName         string `json:"labName"`
}

// Create godoc
// @Summary     Request lab rental
// @Description Создаёт заявку на аренду. Один пользователь — одна активная
// @Description заявка; слот (дата+время+лаборатория) не должен быть занят.
// @Tags        lab
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body createLabRequest true "параметры заявки"
// @Success     201 {object} domain.APIEnvelope{data=domain.Lab}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /lab [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "lab.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start")

	ident, ok := domain.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	var req createLabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.RentalUser == "" || req.RentalUsers == "" || req.RentalPurpose == "" ||
		req.RentalStartTime == "" || req.LabName == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	date, err := time.Parse("2006-01-02", req.RentalDate)
	if err != nil {
		logx.Error(h.Log, reqID, op, "bad rental date", err, "date", req.RentalDate)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// одна активная заявка на пользователя
	u, err := h.Users.UserByID(r.Context(), ident.UserID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "user lookup failed", err, "user_id", ident.UserID)
		v1.WriteDomainError(w, r, err)
		return
	}
	if u.HasLabRental {
		logx.Error(h.Log, reqID, op, "duplicate rental", domain.ErrDuplicateRental, "user_id", u.ID)
		v1.WriteDomainError(w, r, domain.ErrDuplicateRental)
		return
	}

	// слот не должен быть занят живой заявкой
	if _, busy, err := h.Labs.FindConflict(r.Context(), date, req.RentalStartTime, req.LabName); err != nil {
		logx.Error(h.Log, reqID, op, "conflict check failed", err)
		v1.WriteDomainError(w, r, err)
		return
	} else if busy {
		logx.Error(h.Log, reqID, op, "slot busy", domain.ErrLabConflict,
			"lab", req.LabName, "date", req.RentalDate, "time", req.RentalStartTime)
		v1.WriteDomainError(w, r, domain.ErrLabConflict)
		return
	}

	created, err := h.Labs.CreateLab(r.Context(), domain.Lab{
		UserID:          u.ID,
		RentalDate:      date,
		RentalUser:      req.RentalUser,
		RentalUsers:     req.RentalUsers,
		RentalPurpose:   req.RentalPurpose,
		RentalStartTime: req.RentalStartTime,
		LabName:         req.LabName,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	if err := h.Users.SetLabRental(r.Context(), u.ID, true); err != nil {
		logx.Error(h.Log, reqID, op, "set rental flag failed", err, "user_id", u.ID)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "lab_id", created.ID, "user_id", u.ID)
	v1.WriteCreated(w, r, "lab rental requested", created)
}
