package models

// Song is a catalog entry. Requirements are a property of the song itself and
// are reused by every session that plays it; sessions reference songs by
// title snapshot, not by foreign key (see SessionSong).
type Song struct {
	BaseModel
	Title       string `gorm:"type:varchar(255);not null;index" json:"title"`
	Artist      string `gorm:"type:varchar(255)" json:"artist"`
	SongKey     string `gorm:"column:song_key;type:varchar(10)" json:"key"`
	Tempo       int    `gorm:"type:integer" json:"tempo"`
	ResourceURL string `gorm:"type:varchar(500)" json:"resource_url"`

	// RequiredCapabilities is the set a performance of this song needs covered.
	// Empty is valid: the song never blocks readiness.
	RequiredCapabilities []Capability `gorm:"many2many:song_requirements;" json:"required_capabilities"`
}
