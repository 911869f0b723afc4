package models

// Capability is reference data: a skill or instrument a member can cover
// (bass, vocals, ...). Name is unique case-insensitively; the service checks
// with LOWER() before insert, the index backs the exact form.
type Capability struct {
	BaseModel
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Icon string `gorm:"type:varchar(100)" json:"icon"`
}

// Default catalog installed by the seeder.
const (
	CapabilityNameVocals = "vocals"
	CapabilityNameGuitar = "guitar"
	CapabilityNameBass   = "bass"
	CapabilityNameDrums  = "drums"
	CapabilityNameKeys   = "keys"
)
