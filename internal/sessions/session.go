package sessions

import "time"

// Session is a server-side login session. The token is handed to the editor
// client at login and accompanies later privileged calls.
type Session struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Token     string    `bson:"token" json:"token"`
	UserID    string    `bson:"userId" json:"userId"`
	Role      string    `bson:"role" json:"role"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
