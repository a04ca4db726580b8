package lab

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

type Handler struct {
	Log   *log.Logger
	Labs  domain.LabsRepo
	Users domain.UsersRepo
}

func parseID(s string) (domain.LabID, error) {
	return strconv.ParseInt(s, 10, 64)
}

// Sweep мягко удаляет все живые заявки и сбрасывает флаг аренды у их
// владельцев. Используется админским DELETE /lab и периодической очисткой
// в приложении.
func Sweep(ctx context.Context, labs domain.LabsRepo, users domain.UsersRepo, l *log.Logger) (int, error) {
	owners, err := labs.SweepRentals(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	for _, userID := range owners {
		if err := users.SetLabRental(ctx, userID, false); err != nil {
			// заявки уже помечены удалёнными; сбой сброса флага всплывает,
			// ретрай идемпотентен
			return len(owners), err
		}
		l.Printf("reset has_lab_rental user_id=%d", userID)
	}
	return len(owners), nil
}
