package user

import (
	"context"
	"strconv"
	"time"
)

// ID of a marketplace participant. There is no separate role entity:
// any registered user may act as a client or become a worker by
// claiming an order.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// User description. Fields aligned for the GC optimal scanning.
type User struct {
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	Login       string    `db:"login" json:"login"`
	Password    string    `db:"password" json:"-"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Handle      string    `db:"handle" json:"handle,omitempty"`
	ID          ID        `db:"id" json:"id"`
}

// key is an unexported type for keys defined in this package.
// This prevents collisions with keys defined in other packages.
type key int

// userKey is the key for user.User values in Contexts. It is
// unexported; clients use user.NewContext and user.FromContext
// instead of using this key directly.
var userKey key

// NewContext returns a new Context that carries value u.
func NewContext(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// FromContext returns the User value stored in ctx, if any.
func FromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey).(*User)
	return u, ok
}
