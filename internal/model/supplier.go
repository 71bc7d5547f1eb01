package model

type Supplier struct {
	BaseModel
	Name    string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name" validate:"required"`
	Contact string `gorm:"type:varchar(100)" json:"contact,omitempty"`
	Email   string `gorm:"type:varchar(120)" json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address string `gorm:"type:text" json:"address,omitempty"`
	Active  bool   `gorm:"default:true" json:"active"`
}
