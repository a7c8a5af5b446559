package logger

import (
	"estate_addendum/internal/app/port"

	"go.uber.org/zap"
)

// zapAdapter implements port.Logger on top of a sugared zap logger. It lets
// infrastructure loaders that only need the small logging interface stay
// decoupled from zap.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

// NewZapAdapter wraps a zap logger in the port.Logger interface.
func NewZapAdapter(log *zap.Logger) port.Logger {
	return &zapAdapter{sugar: log.Sugar()}
}

func (a *zapAdapter) Info(msg string, args ...any)  { a.sugar.Infow(msg, args...) }
func (a *zapAdapter) Debug(msg string, args ...any) { a.sugar.Debugw(msg, args...) }
func (a *zapAdapter) Warn(msg string, args ...any)  { a.sugar.Warnw(msg, args...) }
func (a *zapAdapter) Error(msg string, args ...any) { a.sugar.Errorw(msg, args...) }
