package dtos

import (
	"strings"

	"floure-storefront/models"
)

type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"required,max=30"`
	Message string `json:"message" binding:"required,max=2000"`
}

func (r ContactRequest) Model() models.ContactRequest {
	return models.ContactRequest{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Phone:   strings.TrimSpace(r.Phone),
		Message: strings.TrimSpace(r.Message),
	}
}
