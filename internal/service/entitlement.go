package service

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/sharpen/internal/repository"
)

// StaticEntitlement grants or denies premium access to everyone.
func StaticEntitlement(premium bool) EntitlementFunc {
	return func(context.Context, string) bool { return premium }
}

// ProfileEntitlement reads the premium flag from the stored user profile.
// A non-nil override wins. Lookup failures deny access.
func ProfileEntitlement(profiles repository.UserProfileRepo, override *bool, logger *slog.Logger) EntitlementFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, userID string) bool {
		if override != nil {
			return *override
		}
		p, err := profiles.Get(ctx)
		if err != nil {
			logger.WarnContext(ctx, "entitlement lookup failed", "user", userID, "error", err)
			return false
		}
		return p.Premium
	}
}
