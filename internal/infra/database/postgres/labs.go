package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

const labCols = "id, user_id, rental_date, rental_user, rental_users, rental_purpose, " +
	"rental_start_time, lab_name, approval_rental, deletion_rental, deleted_at, created_at, updated_at"

func scanLab(row pgx.Row) (domain.Lab, error) {
	var l domain.Lab
	err := row.Scan(&l.ID, &l.UserID, &l.RentalDate, &l.RentalUser, &l.RentalUsers,
		&l.RentalPurpose, &l.RentalStartTime, &l.LabName, &l.ApprovalRental,
		&l.DeletionRental, &l.DeletedAt, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *PGRepo) CreateLab(ctx context.Context, lab domain.Lab) (domain.Lab, error) {
	q := r.qb().Insert(r.table("labs")).
		Columns("user_id", "rental_date", "rental_user", "rental_users",
			"rental_purpose", "rental_start_time", "lab_name").
		Values(lab.UserID, lab.RentalDate, lab.RentalUser, lab.RentalUsers,
			lab.RentalPurpose, lab.RentalStartTime, lab.LabName).
		Suffix("RETURNING " + labCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateLab", sqlStr, args)

	start := time.Now()
	l, err := scanLab(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateLab scan error after %s: %v", time.Since(start), err)
		return domain.Lab{}, err
	}
	r.logger.Printf("CreateLab ok in %s id=%d user_id=%d", time.Since(start), l.ID, l.UserID)
	return l, nil
}

func (r *PGRepo) LabByID(ctx context.Context, id domain.LabID) (domain.Lab, error) {
	q := r.qb().Select(labCols).
		From(r.table("labs")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("LabByID", sqlStr, args)

	l, err := scanLab(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lab{}, domain.ErrLabNotFound
		}
		return domain.Lab{}, err
	}
	return l, nil
}

func (r *PGRepo) ListLabs(ctx context.Context, f domain.LabFilter) ([]domain.Lab, error) {
	q := r.qb().Select(labCols).
		From(r.table("labs")).
		OrderBy("id")
	if f.Approved != nil {
		q = q.Where(sq.Eq{"approval_rental": *f.Approved})
	}
	if f.ExcludeDeleted {
		q = q.Where(sq.Eq{"deletion_rental": false})
	}

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListLabs", sqlStr, args)

	return r.queryLabs(ctx, sqlStr, args)
}

func (r *PGRepo) LabsByUser(ctx context.Context, userID domain.UserID) ([]domain.Lab, error) {
	q := r.qb().Select(labCols).
		From(r.table("labs")).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("id")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("LabsByUser", sqlStr, args)

	return r.queryLabs(ctx, sqlStr, args)
}

func (r *PGRepo) UpdateLab(ctx context.Context, id domain.LabID, upd domain.LabUpdate) (domain.Lab, error) {
	q := r.qb().Update(r.table("labs")).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	if upd.ApprovalRental != nil {
		q = q.Set("approval_rental", *upd.ApprovalRental)
	}
	if upd.LabName != nil {
		q = q.Set("lab_name", *upd.LabName)
	}
	q = q.Suffix("RETURNING " + labCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateLab", sqlStr, args)

	l, err := scanLab(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lab{}, domain.ErrLabNotFound
		}
		return domain.Lab{}, err
	}
	r.logger.Printf("UpdateLab ok id=%d", l.ID)
	return l, nil
}

func (r *PGRepo) FindConflict(ctx context.Context, date time.Time, startTime, labName string) (domain.Lab, bool, error) {
	q := r.qb().Select(labCols).
		From(r.table("labs")).
		Where(sq.Eq{
			"rental_date":       date,
			"rental_start_time": startTime,
			"lab_name":          labName,
			"deletion_rental":   false,
		}).
		Limit(1)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("FindConflict", sqlStr, args)

	l, err := scanLab(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lab{}, false, nil
		}
		return domain.Lab{}, false, err
	}
	return l, true, nil
}

// SweepRentals мягко удаляет все живые заявки и возвращает их владельцев,
// чтобы вызывающий код сбросил has_lab_rental.
func (r *PGRepo) SweepRentals(ctx context.Context, now time.Time) ([]domain.UserID, error) {
	q := r.qb().Update(r.table("labs")).
		Set("deletion_rental", true).
		Set("deleted_at", now).
		Where(sq.Eq{"deletion_rental": false}).
		Suffix("RETURNING user_id")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SweepRentals", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []domain.UserID
	for rows.Next() {
		var id domain.UserID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	r.logger.Printf("SweepRentals ok affected=%d", len(owners))
	return owners, rows.Err()
}

func (r *PGRepo) queryLabs(ctx context.Context, sqlStr string, args []any) ([]domain.Lab, error) {
	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Lab
	for rows.Next() {
		l, err := scanLab(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
