package domain

import (
	"context"
	"time"
)

// Обновляемые поля пользователя (nil — не трогаем)
type UserUpdate struct {
	Username *string
	PassHash []byte
}

// Обновляемые поля заявки (nil — не трогаем)
type LabUpdate struct {
	ApprovalRental *bool
	LabName        *string
}

// Фильтр списков заявок
type LabFilter struct {
	// nil — без фильтра; иначе выборка по флагу одобрения
	Approved *bool
	// true — скрыть мягко удалённые
	ExcludeDeleted bool
}

type UsersRepo interface {
	Close()
	Ping(context.Context) error
	CreateUser(ctx context.Context, username string, passHash []byte, role Role) (User, error)
	UserByUsername(ctx context.Context, username string) (User, error)
	UserByID(ctx context.Context, id UserID) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id UserID, upd UserUpdate) (User, error)
	DeleteUser(ctx context.Context, id UserID) error
	// Флаг активной аренды (один пользователь — одна активная заявка)
	SetLabRental(ctx context.Context, id UserID, has bool) error
}

type LabsRepo interface {
	CreateLab(ctx context.Context, lab Lab) (Lab, error)
	LabByID(ctx context.Context, id LabID) (Lab, error)
	ListLabs(ctx context.Context, f LabFilter) ([]Lab, error)
	LabsByUser(ctx context.Context, userID UserID) ([]Lab, error)
	UpdateLab(ctx context.Context, id LabID, upd LabUpdate) (Lab, error)
	// Поиск живой заявки на тот же слот (дата+время+лаборатория)
	FindConflict(ctx context.Context, date time.Time, startTime, labName string) (Lab, bool, error)
	// Мягкое удаление всех заявок; возвращает владельцев затронутых заявок
	SweepRentals(ctx context.Context, now time.Time) ([]UserID, error)
}
