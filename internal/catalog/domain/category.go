package domain

import (
	"strings"

	"github.com/example/storefront/internal/apperr"
)

// Category classifies products. Simple reference data.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperr.Validation("category name must not be empty")
	}
	return nil
}
