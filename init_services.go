// Package main — Service katmanı başlatma.
//
// initServices, tüm iş mantığı service'lerini repository'ler ve Hub ile
// birbirine bağlar. Service'ler hub'a ws.EventPublisher interface'i
// üzerinden erişir — ws paketine doğrudan tip bağımlılığı service
// imzalarında görünmesin diye (Dependency Inversion).
package main

import (
	"database/sql"
	"time"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/config"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg/email"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg/ratelimit"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/services"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// loginRateLimit: IP başına 5 deneme / 2 dakika penceresi.
// Brute-force'u kırar, meşru kullanıcıyı (başarılı login sayacı
// sıfırlar) rahatsız etmez.
const (
	loginMaxAttempts = 5
	loginWindow      = 2 * time.Minute
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth         services.AuthService
	Verification services.VerificationService
	Profile      services.ProfileService
	Discovery    services.DiscoveryService
	Match        services.MatchService
	Chat         services.ChatService
	Call         services.CallService
	Media        services.MediaService
	Moderation   services.ModerationService

	// LoginLimiter, kapanışta Close edilmek üzere dışarı açılır.
	LoginLimiter *ratelimit.LoginRateLimiter
}

// initServices, repository'ler + hub + config'den service katmanını kurar.
func initServices(db *sql.DB, repos *Repositories, hub *ws.Hub, cfg *config.Config) *Services {
	emailSender := email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.FromAddress, cfg.Email.AppURL)
	loginLimiter := ratelimit.NewLoginRateLimiter(loginMaxAttempts, loginWindow)

	authService := services.NewAuthService(
		repos.User,
		repos.Session,
		repos.Activity,
		loginLimiter,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	callService := services.NewCallService(
		repos.Match,
		repos.Block,
		repos.User,
		repos.Activity,
		hub,
		cfg.Call.RingTimeout,
	)

	return &Services{
		Auth:         authService,
		Verification: services.NewVerificationService(repos.User, repos.Verification, emailSender),
		Profile:      services.NewProfileService(repos.User, repos.Photo, repos.Block, cfg.Upload.Dir, cfg.Upload.MaxSize),
		Discovery:    services.NewDiscoveryService(repos.User, repos.Photo),
		Match:        services.NewMatchService(db, repos.Match, repos.Conversation, repos.User, repos.Photo, repos.Block, repos.Activity, hub),
		Chat:         services.NewChatService(repos.Conversation, repos.Message, repos.User, repos.Photo, repos.Block, hub),
		Call:         callService,
		Media:        services.NewMediaService(callService, cfg.LiveKit),
		Moderation:   services.NewModerationService(repos.Block, repos.Report, repos.Activity, repos.User, repos.Session, repos.Match, callService, hub),
		LoginLimiter: loginLimiter,
	}
}
