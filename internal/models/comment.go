package models

import (
	"strings"
	"time"
)

type Comment struct {
	ID         int64     `db:"id" json:"id"`
	Text       string    `db:"text" json:"text"`
	ItemID     int64     `db:"item_id" json:"-"`
	AuthorID   int64     `db:"author_id" json:"-"`
	AuthorName string    `db:"author_name" json:"authorName"`
	Created    time.Time `db:"created" json:"created"`
}

type CommentCreate struct {
	Text string `json:"text" validate:"required,max=2000"`
}

func (in *CommentCreate) Validate() error {
	in.Text = strings.TrimSpace(in.Text)
	return validateStruct(in)
}
