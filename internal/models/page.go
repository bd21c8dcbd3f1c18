package models

import "errors"

const DefaultPageSize = 10

// Page is a from/size window. The rows returned start at page index
// From/Size, so From is expected to be a multiple of Size.
type Page struct {
	From int
	Size int
}

func NewPage(from, size int) (Page, error) {
	if from < 0 {
		return Page{}, errors.New("from must not be negative")
	}
	if size <= 0 {
		return Page{}, errors.New("size must be positive")
	}
	return Page{From: from, Size: size}, nil
}

// Unpaged returns every row.
func Unpaged() Page { return Page{} }

func (p Page) Limit() int { return p.Size }

func (p Page) Offset() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.From / p.Size) * p.Size
}
