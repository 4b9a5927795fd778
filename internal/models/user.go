package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account owning lists. Sessions are embedded in the user document
// and appended on every signup/login.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash, never serialized
	Sessions  []Session          `bson:"sessions" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Session is one refresh token and its expiry in unix seconds.
type Session struct {
	Token     string `bson:"token" json:"token"`
	ExpiresAt int64  `bson:"expiresAt" json:"expiresAt"`
}

// Clone returns a deep copy so in-memory stores never hand out shared slices.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Sessions = append([]Session(nil), u.Sessions...)
	return &cp
}
