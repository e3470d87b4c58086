package domain

import "time"

type UserRole string

const (
	UserRoleMember   UserRole = "MEMBER"
	UserRoleArbiter  UserRole = "ARBITER"
	UserRoleAdmin    UserRole = "ADMIN"
	UserRolePlatform UserRole = "PLATFORM"
)

type User struct {
	ID           int32    `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	// Balance is the spendable balance in the smallest currency unit.
	// Escrowed funds (stream deposits, collateral) are not part of it.
	Balance   int64     `json:"balance"`
	CreatedOn time.Time `json:"created_on"`
}
