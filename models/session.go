package models

import "time"

// Session is one planned rehearsal. The setlist is an ordered snapshot of
// song titles/urls, deliberately not foreign-keyed: editing or deleting a
// catalog song must not rewrite past setlists. Requirement and artist lookups
// join back to the catalog by title at compute time; duplicate titles collide
// (known limitation).
type Session struct {
	BaseModel
	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime string    `gorm:"type:varchar(5);not null" json:"start_time"` // "19:30"
	EndTime   string    `gorm:"type:varchar(5);not null" json:"end_time"`

	// ShareKey backs the public read-only lineup page, optionally password gated.
	ShareKey     string `gorm:"type:varchar(36);uniqueIndex;not null" json:"share_key"`
	PasswordHash string `gorm:"type:varchar(255)" json:"-"`

	Songs       []SessionSong `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"songs"`
	Commitments []Commitment  `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"commitments"`
	Recordings  []Recording   `gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"recordings"`
}

// SessionSong is one setlist entry, ordered by Position.
type SessionSong struct {
	BaseModel
	SessionID   uint   `gorm:"not null;index" json:"session_id"`
	Title       string `gorm:"type:varchar(255);not null" json:"title"`
	ResourceURL string `gorm:"type:varchar(500)" json:"resource_url"`
	Position    int    `gorm:"type:integer;not null;default:0" json:"position"`
}

// Recording marks a setlist entry as recorded; the blob itself lives in
// external storage, only the reference is kept. A recorded entry pins its
// song into the setlist.
type Recording struct {
	BaseModel
	SessionID uint   `gorm:"not null;index" json:"session_id"`
	SongTitle string `gorm:"type:varchar(255);not null;index" json:"song_title"`
	FileURL   string `gorm:"type:varchar(500);not null" json:"file_url"`
}
