package postgres

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

const userCols = "id, username, pass_hash, role_type, has_lab_rental, created_at"

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PassHash, &u.Role, &u.HasLabRental, &u.CreatedAt)
	return u, err
}

func (r *PGRepo) CreateUser(ctx context.Context, username string, passHash []byte, role domain.Role) (domain.User, error) {
	q := r.qb().Insert(r.table("users")).
		Columns("username", "pass_hash", "role_type").
		Values(username, passHash, role).
		Suffix("RETURNING " + userCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("CreateUser", sqlStr, args)

	start := time.Now()
	u, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		r.logger.Printf("CreateUser scan error after %s: %v", time.Since(start), err)
		return domain.User{}, err
	}
	r.logger.Printf("CreateUser ok in %s id=%d username=%s", time.Since(start), u.ID, u.Username)
	return u, nil
}

func (r *PGRepo) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	q := r.qb().Select(userCols).
		From(r.table("users")).
		Where(sq.Eq{"username": username})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByUsername", sqlStr, args)

	start := time.Now()
	u, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		r.logger.Printf("UserByUsername scan error after %s: %v", time.Since(start), err)
		return domain.User{}, err
	}
	r.logger.Printf("UserByUsername ok in %s id=%d", time.Since(start), u.ID)
	return u, nil
}

func (r *PGRepo) UserByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	q := r.qb().Select(userCols).
		From(r.table("users")).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UserByID", sqlStr, args)

	start := time.Now()
	u, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		r.logger.Printf("UserByID scan error after %s: %v", time.Since(start), err)
		return domain.User{}, err
	}
	r.logger.Printf("UserByID ok in %s id=%d", time.Since(start), u.ID)
	return u, nil
}

func (r *PGRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	q := r.qb().Select(userCols).
		From(r.table("users")).
		OrderBy("id")

	sqlStr, args, _ := q.ToSql()
	r.logSQL("ListUsers", sqlStr, args)

	rows, err := r.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *PGRepo) UpdateUser(ctx context.Context, id domain.UserID, upd domain.UserUpdate) (domain.User, error) {
	q := r.qb().Update(r.table("users")).Where(sq.Eq{"id": id})
	if upd.Username != nil {
		q = q.Set("username", *upd.Username)
	}
	if upd.PassHash != nil {
		q = q.Set("pass_hash", upd.PassHash)
	}
	q = q.Suffix("RETURNING " + userCols)

	sqlStr, args, _ := q.ToSql()
	r.logSQL("UpdateUser", sqlStr, args)

	u, err := scanUser(r.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, err
	}
	r.logger.Printf("UpdateUser ok id=%d", u.ID)
	return u, nil
}

func (r *PGRepo) DeleteUser(ctx context.Context, id domain.UserID) error {
	q := r.qb().Delete(r.table("users")).Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("DeleteUser", sqlStr, args)

	ct, err := r.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	r.logger.Printf("DeleteUser ok id=%d", id)
	return nil
}

func (r *PGRepo) SetLabRental(ctx context.Context, id domain.UserID, has bool) error {
	q := r.qb().Update(r.table("users")).
		Set("has_lab_rental", has).
		Where(sq.Eq{"id": id})

	sqlStr, args, _ := q.ToSql()
	r.logSQL("SetLabRental", sqlStr, args)

	_, err := r.pool.Exec(ctx, sqlStr, args...)
	return err
}
