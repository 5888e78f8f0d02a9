package logger

import "go.uber.org/fx"

// Module provides the JSON slog.Logger shared by every component.
var Module = fx.Provide(New)
