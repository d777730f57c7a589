package model

import "time"

// Item: серверная модель единицы инвентаря.
// Stock: сколько штук сейчас можно взять; Baseline: stock плюс всё, что на руках,
// на момент последней прямой правки админом.
type Item struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null;size:200" json:"name"`
	Description string `json:"description"`
	Stock       int    `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	Baseline    int    `gorm:"not null;default:0" json:"baseline"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ItemPatch: закрытый набор полей, которые админ может менять.
// nil означает «не трогать».
type ItemPatch struct {
	Name        *string
	Description *string
	Stock       *int
}

// Empty сообщает, что в патче нет ни одного поля.
func (p ItemPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Stock == nil
}
