package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID
	Name        string
	Description *string
	Emoji       *string
	CreatedAt   time.Time
}

func NewCategory(name string, description, emoji *string) (*Category, error) {
	if name == "" {
		return nil, ErrMissingFields
	}
	return &Category{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Emoji:       emoji,
	}, nil
}
