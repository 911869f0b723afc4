package models

// Commitment is a member's RSVP to a session together with the capabilities
// they will cover. The composite unique index enforces at most one commitment
// per (session, user) even under concurrent RSVPs; re-RSVP replaces the row's
// capability set, it never duplicates. A commitment must cover at least one
// capability: "committed with zero capabilities" is not a state.
type Commitment struct {
	BaseModel
	SessionID uint `gorm:"not null;index:idx_commitment_session_user,unique" json:"session_id"`
	UserID    uint `gorm:"not null;index:idx_commitment_session_user,unique" json:"user_id"`
	User      User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	CoveredCapabilities []Capability `gorm:"many2many:commitment_capabilities;" json:"covered_capabilities"`
}
