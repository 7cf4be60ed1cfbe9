package domain

import (
	"time"
)

// CREATE TABLE public.users (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     wallet_address  VARCHAR(42) NOT NULL UNIQUE,
//     username        VARCHAR(80) NOT NULL UNIQUE,
//     display_name    VARCHAR(16),
//     email           VARCHAR(120) UNIQUE,
//     is_admin        BOOLEAN NOT NULL DEFAULT FALSE,
//     created_at      TIMESTAMPTZ DEFAULT NOW(),
//     last_login      TIMESTAMPTZ
// );

type User struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	WalletAddress string     `gorm:"column:wallet_address;type:varchar(42);uniqueIndex;not null" json:"wallet_address"`
	Username      string     `gorm:"column:username;type:varchar(80);uniqueIndex;not null" json:"username"`
	DisplayName   *string    `gorm:"column:display_name;type:varchar(16)" json:"display_name"`
	Email         *string    `gorm:"column:email;type:varchar(120);uniqueIndex" json:"email"`
	IsAdmin       bool       `gorm:"column:is_admin;not null" json:"is_admin"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastLogin     *time.Time `gorm:"column:last_login" json:"last_login"`
}

func (User) TableName() string {
	return "users"
}

// UserPatch carries the admin-editable profile fields. Nil fields are left
// untouched.
type UserPatch struct {
	Email   *string
	IsAdmin *bool
}

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Role maps the admin flag onto the role names carried in access tokens.
func (u User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}

	return RoleCustomer
}
