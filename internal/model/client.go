package model

type Client struct {
	BaseModel
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name" validate:"required"`
	FirstName string `gorm:"type:varchar(100)" json:"first_name,omitempty"`
	Email     string `gorm:"type:varchar(120);index" json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address   string `gorm:"type:text" json:"address,omitempty"`
	Active    bool   `gorm:"default:true" json:"active"`
}

// DisplayName is the label shown on invoices.
func (c *Client) DisplayName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.LastName + " " + c.FirstName
}
