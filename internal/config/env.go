package config

import (
	"os"
	"path/filepath"
	"strings"
)

type Env struct {
	AppAddr   string
	GinMode   string
	DBUser    string
	DBPass    string
	DBAddr    string
	DBName    string
	JWTSecret string
	LogoPath  string
	TmpDir    string
}

func LoadEnv() Env {
	return Env{
		AppAddr:   getenv("APP_ADDR", ":8080"),
		GinMode:   getenv("GIN_MODE", ""),
		DBUser:    getenv("DB_USER", "root"),
		DBPass:    getenv("DB_PASS", ""),
		DBAddr:    getenv("DB_ADDR", "127.0.0.1:3306"),
		DBName:    getenv("DB_NAME", "lr_office"),
		JWTSecret: getenv("JWT_SECRET", defaultJWTSecret),
		LogoPath:  getenv("LR_LOGO_PATH", "assets/logo.png"),
		TmpDir:    getenv("LR_TMP_DIR", filepath.Join(os.TempDir(), "lr-pdf")),
	}
}

const defaultJWTSecret = "super-secret-key-change-me"

// JWTSecret reads the signing key for handlers and middleware.
func JWTSecret() []byte {
	return []byte(getenv("JWT_SECRET", defaultJWTSecret))
}

// LogoPath points at the organization mark embedded into consignment PDFs.
func LogoPath() string {
	return getenv("LR_LOGO_PATH", "assets/logo.png")
}

// TmpDir is where generated PDFs are written before streaming.
func TmpDir() string {
	return getenv("LR_TMP_DIR", filepath.Join(os.TempDir(), "lr-pdf"))
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
