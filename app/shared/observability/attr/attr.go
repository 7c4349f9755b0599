// Package attr holds slog attribute helpers so log keys stay consistent
// across modules.
package attr

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	sharedtypes "github.com/brett-phillips/ELO/app/shared/types"
)

func String(key, value string) slog.Attr { return slog.String(key, value) }
func Int(key string, value int) slog.Attr { return slog.Int(key, value) }
func Int64(key string, value int64) slog.Attr { return slog.Int64(key, value) }
func Bool(key string, value bool) slog.Attr { return slog.Bool(key, value) }
func Any(key string, value any) slog.Attr { return slog.Any(key, value) }
func Time(key string, value time.Time) slog.Attr { return slog.Time(key, value) }
func Duration(key string, d time.Duration) slog.Attr { return slog.Duration(key, d) }

// Error logs err under the "error" key. A nil error logs as an empty string.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func GuildID(id sharedtypes.GuildID) slog.Attr { return slog.String("guild_id", string(id)) }
func ChannelID(id sharedtypes.ChannelID) slog.Attr { return slog.String("channel_id", string(id)) }
func UserID(id sharedtypes.UserID) slog.Attr { return slog.String("user_id", string(id)) }
func GameID(id sharedtypes.GameID) slog.Attr { return slog.Int64("game_id", int64(id)) }

type correlationKey struct{}

// WithCorrelationID stores a correlation id on ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// ExtractCorrelationID returns the correlation id set by WithCorrelationID or
// by the Watermill CorrelationID middleware.
func ExtractCorrelationID(ctx context.Context) slog.Attr {
	if id, ok := ctx.Value(correlationKey{}).(string); ok && id != "" {
		return slog.String("correlation_id", id)
	}
	return slog.String("correlation_id", "")
}

// CorrelationIDFromMetadata copies the Watermill correlation id into ctx.
func CorrelationIDFromMetadata(ctx context.Context, metadata map[string]string) context.Context {
	if id := metadata[middleware.CorrelationIDMetadataKey]; id != "" {
		return WithCorrelationID(ctx, id)
	}
	return ctx
}
