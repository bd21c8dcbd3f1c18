package models

import (
	"errors"
	"fmt"
	"strings"
)

type User struct {
	ID    int64  `db:"id" json:"id" yaml:"id"`
	Name  string `db:"name" json:"name" yaml:"name"`
	Email string `db:"email" json:"email" yaml:"email"`
}

type UserCreate struct {
	Name  string `json:"name" yaml:"name" validate:"required,max=255"`
	Email string `json:"email" yaml:"email" validate:"required,email,max=255"`
}

func (in *UserCreate) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return validateStruct(in)
}

// UserUpdate carries a partial change; nil fields are left untouched.
type UserUpdate struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (in *UserUpdate) Validate() error {
	trimPtr(in.Name)
	trimPtr(in.Email)
	if blank(in.Name) {
		return errors.New("name must not be empty")
	}
	if tooLong(in.Name, MaxNameLength) {
		return fmt.Errorf("name must be at most %d characters", MaxNameLength)
	}
	if in.Email != nil {
		if err := validate.Var(*in.Email, "required,email,max=255"); err != nil {
			return errors.New("email must be a valid email")
		}
	}
	return nil
}

// Apply copies the set fields onto u.
func (in UserUpdate) Apply(u *User) {
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
}
