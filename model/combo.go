package model

type Combo struct {
	DTO
	Name     string  `gorm:"not null" json:"name"`
	Price    float64 `json:"price"`
	IsActive bool    `gorm:"default:true" json:"isActive"`
}
