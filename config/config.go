// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Config struct'ı tüm ayarları tek bir yerde toplar — her yerde ayrı ayrı
// os.Getenv() çağırmak yerine tek bir Config nesnesi taşırız.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct — her struct tek bir concern'ü temsil eder.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	LiveKit  LiveKitConfig
	Upload   UploadConfig
	Email    EmailConfig
	Call     CallConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string // SQLite dosya yolu (ör: ./data/amor.db)
}

// JWTConfig, JWT token ayarları.
type JWTConfig struct {
	Secret             string // Token imzalama anahtarı — GİZLİ TUTULMALI
	AccessTokenExpiry  int    // Dakika cinsinden (varsayılan: 15)
	RefreshTokenExpiry int    // Gün cinsinden (varsayılan: 7)
}

// LiveKitConfig, LiveKit SFU server ayarları (arama medya oturumları için).
type LiveKitConfig struct {
	URL       string // LiveKit server URL (ör: wss://livekit.buscandoamoreterno.com)
	APIKey    string
	APISecret string
}

// UploadConfig, profil fotoğrafı yükleme ayarları.
type UploadConfig struct {
	Dir     string // Fotoğrafların kaydedileceği dizin
	MaxSize int64  // Byte cinsinden max dosya boyutu (varsayılan: 10MB)
}

// EmailConfig, Resend email gönderim ayarları.
type EmailConfig struct {
	ResendAPIKey string // Boşsa email gönderimi log'a düşer (development modu)
	FromAddress  string
	AppURL       string // Reset linklerinde kullanılan public URL
}

// CallConfig, arama signaling ayarları.
//
// RingTimeout: Gelen arama yanıtlanmadan bu süre geçerse otomatik reddedilir.
// Hem sunucu tarafı CallService hem client tarafı LifecycleController
// aynı değeri kullanır — iki taraf birbirinden bağımsız süre tutar ama
// aynı sonuca varır (çalan arama her zaman 60sn içinde çözülür).
type CallConfig struct {
	RingTimeout time.Duration // Varsayılan: 60s
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler — production'da gerçek env kullanılır.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "9090"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	accessExpiry, err := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRY_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY_MINUTES: %w", err)
	}

	refreshExpiry, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRY_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRY_DAYS: %w", err)
	}

	maxSize, err := strconv.ParseInt(getEnv("UPLOAD_MAX_SIZE", "10485760"), 10, 64) // 10MB
	if err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_SIZE: %w", err)
	}

	ringTimeoutSec, err := strconv.Atoi(getEnv("CALL_RING_TIMEOUT_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid CALL_RING_TIMEOUT_SECONDS: %w", err)
	}

	jwtSecret := getEnv("JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/amor.db"),
		},
		JWT: JWTConfig{
			Secret:             jwtSecret,
			AccessTokenExpiry:  accessExpiry,
			RefreshTokenExpiry: refreshExpiry,
		},
		LiveKit: LiveKitConfig{
			URL:       getEnv("LIVEKIT_URL", "ws://localhost:7880"),
			APIKey:    getEnv("LIVEKIT_API_KEY", ""),
			APISecret: getEnv("LIVEKIT_API_SECRET", ""),
		},
		Upload: UploadConfig{
			Dir:     getEnv("UPLOAD_DIR", "./data/uploads"),
			MaxSize: maxSize,
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromAddress:  getEnv("EMAIL_FROM", "Buscando Amor Eterno <hola@buscandoamoreterno.com>"),
			AppURL:       getEnv("APP_URL", "http://localhost:3000"),
		},
		Call: CallConfig{
			RingTimeout: time.Duration(ringTimeoutSec) * time.Second,
		},
	}

	return cfg, nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv, environment variable'ı okur, yoksa fallback değeri döner.
func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
