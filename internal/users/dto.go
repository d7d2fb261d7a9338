package users

import (
	"strings"

	"github.com/aventra-health/benefits-store-backend/pkg/db/models"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
)

// CreateUserDTO captures the fields needed to provision a customer account.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Role         enums.UserRole
	EmployerID   *string
	EmployerName *string
}

// ToModel maps the DTO onto a fresh User model.
func (d CreateUserDTO) ToModel() *models.User {
	role := d.Role
	if !role.IsValid() {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		PasswordHash: d.PasswordHash,
		Name:         strings.TrimSpace(d.Name),
		Role:         role,
		EmployerID:   d.EmployerID,
		EmployerName: d.EmployerName,
		IsActive:     true,
	}
}
