package domain

import "time"

// Material Model (uploaded study material)
type Material struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`                      // Store-assigned identifier
	UserAddress  string    `gorm:"index;size:128;not null" json:"userAddress"`        // Owner key: wallet address or user id
	Title        string    `gorm:"not null" json:"title"`                             // Title
	Description  *string   `gorm:"type:text" json:"description"`                      // Optional description
	Visibility   string    `gorm:"size:32;not null;default:public" json:"visibility"` // public or private
	FileURL      string    `gorm:"size:1024;not null" json:"fileUrl"`                 // Uploaded document URL
	ThumbnailURL *string   `gorm:"size:1024" json:"thumbnailUrl"`                     // Optional thumbnail URL
	CreatedAt    time.Time `gorm:"index;not null" json:"createdAt"`                   // Timestamp of creation
}
