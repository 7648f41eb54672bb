package portal

import "time"

// TeamApplication is a volunteer application. It has no status field; admins
// may only read or delete it.
type TeamApplication struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Languages string    `json:"languages"`
	Location  string    `json:"location"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailSignup is a newsletter signup. Signups are idempotent on email.
type EmailSignup struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
