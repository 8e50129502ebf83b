package views

import (
	"context"

	"github.com/AdamBeresnev/sabo-arena/internal/middleware"
	users "github.com/AdamBeresnev/sabo-arena/internal/user"
)

func GetUser(ctx context.Context) *users.User {
	return middleware.GetAuthenticatedUser(ctx)
}
