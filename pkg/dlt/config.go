package dlt

import (
	"os"
	"strconv"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/minminlittleshrimp/libdlt-ng/pkg/logger"
)

// Config is read from the environment exactly once, at facade
// initialization. The variable names are the DLT_USER_* keys read in
// loadConfig.
type Config struct {
	NumBuffers   int
	BufferSize   []int // per-ring capacity, length NumBuffers
	BatchSize    int
	OverflowMode OverflowMode
	Timeout      time.Duration
	SocketPath   string
}

const (
	defaultNumBuffers = 4
	defaultBufferSize = 2048
	defaultBatchSize  = 16
	defaultTimeoutMS  = 100
	defaultSocketPath = "/tmp/dlt"
)

// loadConfig consults the environment (after an optional .env load, which
// is a no-op when no file is present) and returns the effective
// configuration. Unset or malformed values fall back to their documented
// defaults rather than failing startup.
func loadConfig() Config {
	_ = godotenv.Load(".env")

	n := envInt("DLT_USER_NUM_BUFFERS", defaultNumBuffers)
	if n < 1 {
		n = 1
	}

	sizes := make([]int, n)
	for i := range sizes {
		key := "DLT_USER_BUFFER_SIZE_" + strconv.Itoa(i)
		sizes[i] = envSlotCount(key, defaultBufferSize)
	}

	mode := ParseOverflowMode(byte(envInt("DLT_USER_OVERFLOW_MODE", int(OverflowOverwrite))))

	socketPath := os.Getenv("DLT_USER_SOCKET_PATH")
	if socketPath == "" {
		socketPath = defaultSocketPath
	}

	cfg := Config{
		NumBuffers:   n,
		BufferSize:   sizes,
		BatchSize:    envInt("DLT_USER_BATCH_SIZE", defaultBatchSize),
		OverflowMode: mode,
		Timeout:      time.Duration(envInt("DLT_USER_TIMEOUT_MS", defaultTimeoutMS)) * time.Millisecond,
		SocketPath:   socketPath,
	}
	logger.Info("dlt_config_loaded",
		"num_buffers", cfg.NumBuffers,
		"batch_size", cfg.BatchSize,
		"overflow_mode", cfg.OverflowMode,
		"timeout", cfg.Timeout,
	)
	return cfg
}

// envSlotCount parses a ring capacity given either as a plain slot count
// ("2048") or a human byte size ("2KB", "1MiB") understood as an
// approximate sizing hint; the ring always stores typed slots, not raw
// bytes, so a byte size is interpreted as bytes-per-slot-estimate and
// divided down to a slot count.
func envSlotCount(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if b, err := humanize.ParseBytes(v); err == nil {
		const estBytesPerSlot = 128
		n := int(b) / estBytesPerSlot
		if n < 1 {
			n = 1
		}
		return n
	}
	logger.Warn("dlt_config_bad_size", "key", key, "value", v)
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("dlt_config_bad_int", "key", key, "value", v)
		return def
	}
	return n
}
