package models

import (
	"time"
)

// Frame is one stored film frame: an immutable image payload plus metadata.
// IDs are store-assigned and monotonically increasing; folder membership is
// fixed at creation and never reassigned.
type Frame struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Folder   string `gorm:"size:255;not null;index" json:"folder"`
	MimeType string `gorm:"size:120;not null" json:"mime_type"`
	Payload  []byte `gorm:"not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// SizeBytes reports the payload size without exposing the bytes in JSON.
func (f *Frame) SizeBytes() int64 {
	return int64(len(f.Payload))
}
