package logger

import (
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once   sync.Once
	logger *zap.Logger
	sugar  *zap.SugaredLogger
)

var (
	AppName = "leakcheck"
	Env     = "local"
)

// Options controla nível e destino dos logs.
// LogPath vazio desliga o arquivo rotacionado.
type Options struct {
	Level   string
	LogPath string
}

// Init configura o logger (singleton). Chamadas seguintes são ignoradas.
// O console escreve em stderr para não misturar logs com o relatório em stdout.
func Init(opts Options) error {
	var initErr error
	once.Do(func() {
		level, err := zapcore.ParseLevel(defaultLevel(opts.Level))
		if err != nil {
			initErr = err
			level = zapcore.InfoLevel
		}

		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.CallerKey = "caller"
		encoderCfg.LevelKey = "level"
		encoderCfg.MessageKey = "message"

		consoleCfg := encoderCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

		cores := []zapcore.Core{
			zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(os.Stderr), level),
		}
		if opts.LogPath != "" {
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.LogPath,
				MaxSize:    50,
				MaxBackups: 7,
				MaxAge:     30,
				Compress:   true,
			})
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter, level))
		}

		logger = zap.New(zapcore.NewTee(cores...),
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
			zap.Fields(
				zap.String("app", AppName),
				zap.String("env", Env),
			),
		)
		sugar = logger.Sugar()
	})
	return initErr
}

func defaultLevel(l string) string {
	if l == "" {
		return "info"
	}
	return l
}

func GetLogger() *zap.Logger {
	Init(Options{})
	return logger
}

func GetSugaredLogger() *zap.SugaredLogger {
	Init(Options{})
	return sugar
}

// Sync descarrega buffers pendentes; erros de sync em stderr são ignorados.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}

func Trace(fn string, start time.Time) {
	elapsed := time.Since(start)
	GetSugaredLogger().Debugf("%s executed in %d ms", fn, elapsed.Milliseconds())
}

// TraceAuto registra início e fim da função chamadora.
// Uso: defer logger.TraceAuto()()
func TraceAuto() func() {
	start := time.Now()
	pc, _, _, ok := runtime.Caller(1)
	funcName := "unknown"
	if ok {
		funcName = trimPackagePath(runtime.FuncForPC(pc).Name())
	}
	s := GetSugaredLogger()
	s.Debugw("início da função", "function", funcName)
	return func() {
		s.Debugw("fim da função", "function", funcName, "duration", time.Since(start).String())
	}
}

func trimPackagePath(fullName string) string {
	if idx := strings.LastIndex(fullName, "/"); idx != -1 {
		fullName = fullName[idx+1:]
	}
	if idx := strings.Index(fullName, "."); idx != -1 {
		return fullName[idx+1:]
	}
	return fullName
}
