package config

import "go.uber.org/fx"

// Module loads the shell configuration from .env, environment and flags.
var Module = fx.Provide(Load)
