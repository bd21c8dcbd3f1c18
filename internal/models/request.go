package models

import (
	"strings"
	"time"
)

type ItemRequest struct {
	ID          int64     `db:"id" json:"id"`
	Description string    `db:"description" json:"description"`
	RequesterID int64     `db:"requester_id" json:"-"`
	Created     time.Time `db:"created" json:"created"`
	Items       []Item    `db:"-" json:"items"`
}

type ItemRequestCreate struct {
	Description string `json:"description" validate:"required,max=512"`
}

func (in *ItemRequestCreate) Validate() error {
	in.Description = strings.TrimSpace(in.Description)
	return validateStruct(in)
}
