package models

// User is a band member. Phone is the contact channel for outbound messages;
// empty means the member cannot be reached by the dispatcher and is skipped.
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(150);not null;index" json:"name"`
	Email        string `gorm:"type:varchar(150);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255)" json:"-"`
	Phone        string `gorm:"type:varchar(30)" json:"phone"`
	IsAdmin      bool   `gorm:"default:false;index" json:"is_admin"`

	// Capabilities the member can cover when committing to a session.
	Capabilities []Capability `gorm:"many2many:user_capabilities;" json:"capabilities"`
}

// HasCapability reports whether the user's profile holds the capability.
// Capabilities must have been preloaded.
func (u *User) HasCapability(capabilityID uint) bool {
	for _, c := range u.Capabilities {
		if c.ID == capabilityID {
			return true
		}
	}
	return false
}
