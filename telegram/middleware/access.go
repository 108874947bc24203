package middleware

import (
	"log/slog"

	"github.com/rshop/shopbot/logger"
	tghelpers "github.com/rshop/shopbot/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	// AdminIDs is the set of user IDs allowed through. An empty set locks
	// everyone out rather than letting everyone in.
	AdminIDs map[int64]struct{}
	OnReject tele.HandlerFunc
}

func (o AdminOptions) allowed(userID int64) bool {
	_, ok := o.AdminIDs[userID]
	return ok
}

// AdminOnlyMiddleware ensures that only configured operators can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || !opts.allowed(user.ID) {
				ctx := tghelpers.BuildContext(c)
				userID := int64(0)
				if user != nil {
					userID = user.ID
				}
				logger.TG.LogAttrs(ctx, slog.LevelWarn, "access denied",
					slog.String("event", "access.denied"),
					slog.String("status", "denied"),
					slog.Int64("user_id", userID),
				)
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
