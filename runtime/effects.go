// Package runtime is a Go-side reference implementation of the host
// effect object that emitted programs call into (spec.md §6's runtime
// contract): time, random, http, log, fs, crypto, env, and sys,
// grouped exactly as the capability names in spec.md §6 list them.
// Emitted code is JavaScript text; mkc itself never executes it, so
// this package is exercised only by its own tests — it documents, in
// an idiomatic Go shape, the surface a JS host runtime must provide,
// the way the teacher's pkg/runtime/stdlib.go documents (and backs)
// the runtime support functions its own generated code calls into.
package runtime

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	mrand "math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Effects groups every capability an emitted program's host object
// exposes. New wires each group to real OS/network/clock access;
// nothing here is package-level mutable state (REDESIGN FLAG in
// spec.md §9 — every prior global lives on an *Effects value instead).
type Effects struct {
	Time   TimeEffects
	Random RandomEffects
	HTTP   HTTPEffects
	Log    LogEffects
	FS     FSEffects
	Crypto CryptoEffects
	Env    EnvEffects
	Sys    SysEffects
}

// New builds an Effects wired to the real host: wall-clock time, a
// cryptographically seeded random source, and a zap logger for Log
// (development format if verbose, no-op otherwise — the same fallback
// internal/driver.NewPipeline uses).
func New(verbose bool) *Effects {
	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	return &Effects{
		HTTP: newHTTPEffects(),
		Log:  LogEffects{logger: logger.Sugar()},
	}
}

// TimeEffects implements the `time.{now, unixMillis, sleep}` group.
type TimeEffects struct{}

func (TimeEffects) Now() time.Time       { return time.Now() }
func (TimeEffects) UnixMillis() int64    { return time.Now().UnixMilli() }
func (TimeEffects) Sleep(d time.Duration) { time.Sleep(d) }

// RandomEffects implements the `random.{int, intRange, bytes, uuidV4}` group.
type RandomEffects struct{}

func (RandomEffects) Int() int {
	return mrand.Int()
}

// IntRange returns a value in [min, max). It panics if max <= min, the
// same contract Go's math/rand.Intn uses for a non-positive bound.
func (RandomEffects) IntRange(min, max int) int {
	return min + mrand.Intn(max-min)
}

func (RandomEffects) Bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (RandomEffects) UUIDV4() string {
	return uuid.New().String()
}

// FSEffects implements the `fs.{readFile, writeFile, exists}` group.
type FSEffects struct{}

func (FSEffects) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (FSEffects) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (FSEffects) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CryptoEffects implements the `crypto.{hashSha256, hmacSha256}` group
// with the standard library: no ecosystem hash/hmac library in the
// corpus offers anything sha256.Sum256/hmac.New doesn't already (see
// DESIGN.md).
type CryptoEffects struct{}

func (CryptoEffects) HashSha256(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (CryptoEffects) HmacSha256(key, data []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// EnvEffects implements the `env.{getEnv}` group.
type EnvEffects struct{}

func (EnvEffects) GetEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// SysEffects implements the `sys.{exit, getPid}` group.
type SysEffects struct{}

func (SysEffects) Exit(code int) {
	os.Exit(code)
}

func (SysEffects) GetPid() int {
	return os.Getpid()
}

// LogEffects implements the `log.{info, warn, error, debug}` group on
// top of a zap.SugaredLogger, rather than bare fmt.Println: the rest
// of this repo already standardizes on zap for structured logging
// (internal/driver.Pipeline), and an emitted program's log calls
// deserve the same leveled, structured treatment.
type LogEffects struct {
	logger *zap.SugaredLogger
}

func (l LogEffects) Info(msg string)  { l.log(zapcore.InfoLevel, msg) }
func (l LogEffects) Warn(msg string)  { l.log(zapcore.WarnLevel, msg) }
func (l LogEffects) Error(msg string) { l.log(zapcore.ErrorLevel, msg) }
func (l LogEffects) Debug(msg string) { l.log(zapcore.DebugLevel, msg) }

func (l LogEffects) log(level zapcore.Level, msg string) {
	if l.logger == nil {
		fmt.Println(msg)
		return
	}
	switch level {
	case zapcore.InfoLevel:
		l.logger.Info(msg)
	case zapcore.WarnLevel:
		l.logger.Warn(msg)
	case zapcore.ErrorLevel:
		l.logger.Error(msg)
	case zapcore.DebugLevel:
		l.logger.Debug(msg)
	}
}
