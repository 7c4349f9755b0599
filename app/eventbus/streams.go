package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nats-io/nats.go/jetstream"
)

// Streams lists the JetStream streams and the subjects each one captures.
var Streams = []jetstream.StreamConfig{
	{Name: "lobby", Subjects: []string{"lobby.>"}},
	{Name: "score", Subjects: []string{"score.>"}},
}

// EnsureStreams creates missing streams and adds missing subjects to
// existing ones.
func EnsureStreams(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) error {
	for _, cfg := range Streams {
		stream, err := js.Stream(ctx, cfg.Name)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			if _, err := js.CreateStream(ctx, cfg); err != nil {
				return fmt.Errorf("failed to create stream %s: %w", cfg.Name, err)
			}
			logger.Info("Created JetStream stream", slog.String("stream", cfg.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check stream %s: %w", cfg.Name, err)
		}

		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info for %s: %w", cfg.Name, err)
		}
		missing := false
		for _, subject := range cfg.Subjects {
			if !slices.Contains(info.Config.Subjects, subject) {
				info.Config.Subjects = append(info.Config.Subjects, subject)
				missing = true
			}
		}
		if missing {
			if _, err := js.UpdateStream(ctx, info.Config); err != nil {
				return fmt.Errorf("failed to update stream %s: %w", cfg.Name, err)
			}
			logger.Info("Updated JetStream stream subjects", slog.String("stream", cfg.Name))
		}
	}
	return nil
}
