package domain

import (
	"strings" // Wallet normalization
	"time"    // Creation timestamps
)

// User Model (identity record)
type User struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`                   // Store-assigned identifier
	FullName           string    `gorm:"not null" json:"fullName"`                       // Display name
	Email              string    `gorm:"uniqueIndex;size:255;not null" json:"email"`     // Unique email
	WalletAddress      *string   `gorm:"index;size:128" json:"walletAddress"`            // Wallet address as supplied
	WalletAddressLower *string   `gorm:"uniqueIndex;size:128" json:"walletAddressLower"` // Lowercase copy used for matching
	Institution        *string   `gorm:"size:255" json:"institution"`                    // Optional institution
	Country            *string   `gorm:"size:128" json:"country"`                        // Optional country
	Bio                *string   `gorm:"type:text" json:"bio"`                           // Optional bio
	CreatedAt          time.Time `gorm:"not null" json:"createdAt"`                      // Timestamp of creation
}

// SetWallet stores the wallet address verbatim and keeps the normalized copy in sync
func (u *User) SetWallet(address string) {
	if address == "" {
		u.WalletAddress, u.WalletAddressLower = nil, nil
		return
	}
	lower := NormalizeWallet(address)
	u.WalletAddress = &address
	u.WalletAddressLower = &lower
}

// NormalizeWallet returns the case-insensitive matching form of a wallet address
func NormalizeWallet(address string) string {
	return strings.ToLower(address)
}
