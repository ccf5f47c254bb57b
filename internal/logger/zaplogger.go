package logger

import (
	"os"
	"time"

	"github.com/MrPunder/grouppicker/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ZapLogger пишет в два файла с ротацией: все уровни и только ошибки
type ZapLogger struct {
	logZap *zap.SugaredLogger
	logger *zap.Logger // Сохраняем ссылку на оригинальный логгер для вызова Sync()
}

func NewZapLogger(conf *config.Config) (*ZapLogger, error) {
	logLevel, err := zap.ParseAtomicLevel(conf.Log.Level)
	if err != nil {
		return nil, err
	}
	// Настройка энкодера
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	// Настройка ротации логов для обычных логов
	stdLogWriter := &lumberjack.Logger{
		Filename:   conf.Log.Path,
		MaxSize:    conf.Log.MaxSize,    // Максимальный размер в МБ
		MaxBackups: conf.Log.MaxBackups, // Максимальное количество файлов бэкапа
		MaxAge:     conf.Log.MaxAge,     // Максимальный возраст в днях
		Compress:   conf.Log.Compress,   // Сжимать ротированные файлы
	}

	// Настройка ротации логов для ошибок
	errLogWriter := &lumberjack.Logger{
		Filename:   conf.Log.ErrorPath,
		MaxSize:    conf.Log.MaxSize,
		MaxBackups: conf.Log.MaxBackups,
		MaxAge:     conf.Log.MaxAge,
		Compress:   conf.Log.Compress,
	}

	// Создание ядра логгера
	stdCore := zapcore.NewCore(
		encoder,
		zapcore.AddSync(stdLogWriter),
		logLevel,
	)

	errCore := zapcore.NewCore(
		encoder,
		zapcore.AddSync(errLogWriter),
		zap.ErrorLevel,
	)

	cores := []zapcore.Core{stdCore, errCore}
	if conf.Log.Console {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), logLevel))
	}

	// Объединение ядер
	core := zapcore.NewTee(cores...)

	// Создание логгера
	logger := zap.New(core, zap.Development(), zap.AddCaller(), zap.AddCallerSkip(1))

	return &ZapLogger{
		logZap: logger.Sugar(),
		logger: logger,
	}, nil
}

// With возвращает логгер с постоянными полями (например, id чата)
func (logger *ZapLogger) With(args ...any) *ZapLogger {
	return &ZapLogger{
		logZap: logger.logZap.With(args...),
		logger: logger.logger,
	}
}

// RequestLog makes request log
func (logger *ZapLogger) RequestLog(requestID string, method string, path string) {
	logger.logZap.Infow("incoming request",
		"request_id", requestID,
		"method", method,
		"path", path,
	)
}

// Info logs message at info level
func (logger *ZapLogger) Info(mes string) {
	logger.logZap.Info(mes)
}

func (logger *ZapLogger) Infof(str string, arg ...any) {
	logger.logZap.Infof(str, arg...)
}

func (logger *ZapLogger) Errorf(str string, arg ...any) {
	logger.logZap.Errorf(str, arg...)
}

// Error logs message at error level
func (logger *ZapLogger) Error(mes string) {
	logger.logZap.Error(mes)
}

// Debug logs message at debug level
func (logger *ZapLogger) Debug(mes string) {
	logger.logZap.Debug(mes)
}

// Debugf logs formatted message at debug level
func (logger *ZapLogger) Debugf(str string, arg ...any) {
	logger.logZap.Debugf(str, arg...)
}

// ResponseLog makes response log
func (logger *ZapLogger) ResponseLog(requestID string, status int, size int, duration time.Duration) {
	logger.logZap.Infow("Send response with",
		"request_id", requestID,
		"status", status,
		"size", size,
		"time", duration.String(),
	)
}

// Close закрывает логгер, сбрасывая все буферизованные логи
func (logger *ZapLogger) Close() error {
	return logger.logger.Sync()
}
