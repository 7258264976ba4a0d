package magento

import "go.uber.org/zap"

// zapLogger adapts a zap.Logger to the Logger interface.
type zapLogger struct {
	logger *zap.SugaredLogger
}

// NewZapLogger wraps a zap logger so it can be used as the session
// logger.
func NewZapLogger(logger *zap.Logger) Logger {
	return &zapLogger{logger: logger.Sugar()}
}

func (z *zapLogger) Debug(msg string, fields map[string]interface{}) {
	z.logger.Debugw(msg, flatten(fields)...)
}

func (z *zapLogger) Info(msg string, fields map[string]interface{}) {
	z.logger.Infow(msg, flatten(fields)...)
}

func (z *zapLogger) Warn(msg string, fields map[string]interface{}) {
	z.logger.Warnw(msg, flatten(fields)...)
}

func (z *zapLogger) Error(msg string, fields map[string]interface{}) {
	z.logger.Errorw(msg, flatten(fields)...)
}

func flatten(fields map[string]interface{}) []interface{} {
	flat := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		flat = append(flat, k, v)
	}
	return flat
}
