package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Dataset source kinds.
const (
	SourceFile  = "file"
	SourceHTTP  = "http"
	SourceMySQL = "mysql"
)

type Env struct {
	AppAddr string
	GinMode string

	DatasetSource string
	DatasetPath   string
	DatasetURL    string
	MySQLDSN      string

	// Capabilities reported by the kiosk host. A kiosk without a camera
	// still serves lookups; scanning is refused with a message.
	CameraEnabled  bool
	DecoderEnabled bool
	ViewportWidth  int

	ScanOpenTimeout time.Duration
	Timezone        string
	CORSOrigins     []string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	return Env{
		AppAddr:         appAddr,
		GinMode:         strings.TrimSpace(os.Getenv("GIN_MODE")),
		DatasetSource:   strings.ToLower(getEnv("DATASET_SOURCE", SourceFile)),
		DatasetPath:     getEnv("DATASET_PATH", "database.json"),
		DatasetURL:      getEnv("DATASET_URL", ""),
		MySQLDSN:        getEnv("MYSQL_DSN", ""),
		CameraEnabled:   getEnvBool("CAMERA_ENABLED", true),
		DecoderEnabled:  getEnvBool("DECODER_ENABLED", true),
		ViewportWidth:   getEnvInt("VIEWPORT_WIDTH", 400),
		ScanOpenTimeout: getEnvDuration("SCAN_OPEN_TIMEOUT", 20*time.Second),
		Timezone:        getEnv("TZ_NAME", "Local"),
		CORSOrigins:     splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

// Location resolves Timezone, falling back to time.Local.
func (e Env) Location() *time.Location {
	if e.Timezone == "" || strings.EqualFold(e.Timezone, "Local") {
		return time.Local
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
