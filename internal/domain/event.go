package domain

import "time"

// TrackEvent is the local copy of an analytics event. Events are also
// forwarded to the CMS events collection best-effort.
type TrackEvent struct {
	ID         int64     `json:"id,string" gorm:"primaryKey"`
	SessionID  string    `gorm:"index;size:64" json:"session_id"`
	Name       string    `gorm:"index;size:64" json:"name"`
	Properties string    `gorm:"type:text" json:"properties"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (TrackEvent) TableName() string {
	return "track_event"
}
