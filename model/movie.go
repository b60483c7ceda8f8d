package model

type Movie struct {
	DTO
	Title     string `gorm:"not null" json:"title"`
	Slug      string `gorm:"uniqueIndex" json:"slug"`
	Duration  int    `json:"duration"` // phút
	PosterUrl string `json:"posterUrl"`
	Status    string `gorm:"size:20;default:NOW_SHOWING" json:"status"`
}
