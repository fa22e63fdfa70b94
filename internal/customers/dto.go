package customers

import (
	"time"

	"github.com/mahfuzanam/dokanpos-backend/pkg/db/models"
)

// CustomerDTO represents the customer payload returned to clients.
type CustomerDTO struct {
	Phone     string    `json:"phone"`
	Name      string    `json:"name"`
	Email     *string   `json:"email,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomerDTO builds a DTO from the persisted model.
func NewCustomerDTO(customer *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		Phone:     customer.Phone,
		Name:      customer.Name,
		Email:     customer.Email,
		Address:   customer.Address,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

func newCustomerDTOs(rows []models.Customer) []CustomerDTO {
	dtos := make([]CustomerDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewCustomerDTO(&rows[i])
	}
	return dtos
}
