package session

import (
	"context"

	"go.uber.org/fx"
)

// Module provides the session store and restores it on start.
var Module = fx.Options(
	fx.Provide(NewStore),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, store *Store) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.Init(ctx)
		},
	})
}
