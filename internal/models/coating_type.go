package models

// CoatingType: категория покрытия (эмаль, грунт и т.д.) с номенклатурным кодом.
type CoatingType struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:40;not null"`
	Nomenclature string `gorm:"size:40;not null;index"`

	Products []Product
}
