package helpers

import "context"

// CurrentProfile resolves a Telegram user ID to a domain profile via a
// service that implements GetOrCreateProfile. The generic type T lets the
// wiring layer supply its own profile model.
func CurrentProfile[T any](
	ctx context.Context,
	service interface {
		GetOrCreateProfile(context.Context, int64) (T, error)
	},
	tgID int64,
) (T, error) {
	var zero T
	if service == nil {
		return zero, nil
	}
	return service.GetOrCreateProfile(ctx, tgID)
}
