package domain

import "time"

type User struct {
	ID              string
	Username        string
	Name            string
	PasswordHash    string // bcrypt encoded
	EmailCiphertext []byte // nonce || ciphertext || tag, see cryptox.FieldCipher
	EmailIndex      string // keyed blind index of the normalised email
	LastActive      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IdleFor reports how long the user has been inactive as of now.
func (u User) IdleFor(now time.Time) time.Duration {
	return now.Sub(u.LastActive)
}
