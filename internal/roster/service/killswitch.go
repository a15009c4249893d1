package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/aussiebroadwan/roster/internal/roster/policy"
	"github.com/aussiebroadwan/roster/pkg/slogx"
)

// KillSwitch locks the whole API for everyone but superusers. State lives in
// this process only and resets on restart; each instance of a multi-instance
// deployment has its own switch.
type KillSwitch struct {
	locked atomic.Bool
}

// Locked reports the current state.
func (k *KillSwitch) Locked() bool { return k.locked.Load() }

func (k *KillSwitch) Lock(ctx context.Context, actor policy.Actor) error {
	return k.set(ctx, actor, true)
}

func (k *KillSwitch) Unlock(ctx context.Context, actor policy.Actor) error {
	return k.set(ctx, actor, false)
}

func (k *KillSwitch) set(ctx context.Context, actor policy.Actor, locked bool) error {
	if !policy.CanToggleLock(actor) {
		return ErrForbidden
	}
	k.locked.Store(locked)
	slogx.FromContext(ctx).Warn("kill-switch toggled",
		slog.String("actor_id", actor.ID()),
		slog.Bool("locked", locked),
	)
	return nil
}
