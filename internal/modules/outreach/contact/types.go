package contact

import "strings"

const statusNew = "new"

type CreateContactDTO struct {
	Name    string `json:"name"    binding:"required,max=100"`
	Email   string `json:"email"   binding:"required,email,max=191"`
	Subject string `json:"subject" binding:"required,max=255"`
	Message string `json:"message" binding:"required,min=10,max=10000"`
}

func (d *CreateContactDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Subject = strings.TrimSpace(d.Subject)
	d.Message = strings.TrimSpace(d.Message)
}

// UpdateStatusDTO sets the free-form workflow status of a message.
type UpdateStatusDTO struct {
	Status string `json:"status" binding:"required,max=30"`
}

func (d *UpdateStatusDTO) Normalize() {
	d.Status = strings.ToLower(strings.TrimSpace(d.Status))
}
