package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for users. GetByID and GetByEmail
// return (nil, nil) when no user matches. Create returns ErrEmailTaken
// on a duplicate email.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
