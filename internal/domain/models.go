package domain

import "time"

// Базовые идентификаторы (bigserial в Postgres)
type UserID = int64
type LabID = int64

// Роли пользователей — закрытый набор, проверка по вхождению
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Пользователь
type User struct {
	ID           UserID    `json:"id"`
	Username     string    `json:"username"`
	PassHash     []byte    `json:"-"` // никогда не отдаём наружу
	Role         Role      `json:"role"`
	HasLabRental bool      `json:"hasLabRental"` // есть ли активная заявка на аренду
	CreatedAt    time.Time `json:"createdAt"`
}

// Заявка на аренду лаборатории
type Lab struct {
	ID              LabID      `json:"id"`
	UserID          UserID     `json:"userId"`
	RentalDate      time.Time  `json:"rentalDate"`      // желаемая дата (date)
	RentalUser      string     `json:"rentalUser"`      // представитель
	RentalUsers     string     `json:"rentalUsers"`     // полный список участников
	RentalPurpose   string     `json:"rentalPurpose"`   // цель использования
	RentalStartTime string     `json:"rentalStartTime"` // временной слот, напр. "19:10 ~ 20:30"
	LabName         string     `json:"labName"`
	ApprovalRental  bool       `json:"approvalRental"` // одобрена ли заявка
	DeletionRental  bool       `json:"deletionRental"` // мягкое удаление
	DeletedAt       *time.Time `json:"deletedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}
