package domain

import "time"

// User is the locally persisted identity. Favorites live on the user
// document itself, mirroring the per-identity document tree.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Email        string    `bson:"email" json:"email"`
	DisplayName  string    `bson:"display_name" json:"displayName"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	PhotoURL     string    `bson:"photo_url,omitempty" json:"photoURL,omitempty"`
	Favorites    []string  `bson:"favorites" json:"favorites"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
