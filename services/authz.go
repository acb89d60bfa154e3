package services

import (
	"fmt"

	"food-order/models"
)

// authorize rejects a caller acting on a resource owned by someone else.
// The message stays generic so it does not reveal what exists.
func authorize(caller models.Identity, ownerID int) error {
	if caller.UserID <= 0 {
		return models.ErrUnauthenticated
	}
	if caller.UserID != ownerID {
		return fmt.Errorf("%w: user %d cannot access resources of user %d", models.ErrForbidden, caller.UserID, ownerID)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{models.ErrInvalidArgument}, args...)...)
}
