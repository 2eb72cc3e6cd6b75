// Package main, buscando-amor-eterno backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (embedded migration'lar ile)
//  3. Upload dizinini oluştur
//  4. Repository'leri oluştur (DB bağlantısı ile)
//  5. WebSocket Hub'ı başlat
//  6. Service'leri oluştur (repository'ler + hub ile)
//  7. Hub callback'lerini bağla
//  8. Handler'ları oluştur (service'ler ile)
//  9. HTTP router'ı kur, route'ları bağla
// 10. CORS yapılandır
// 11. HTTP Server'ı başlat
// 12. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/config"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/database"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] buscando-amor-eterno server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to access embedded migrations: %v", err)
	}
	db, err := database.New(cfg.Database.Path, migrations)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Upload Dizini ───
	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		log.Fatalf("[main] failed to create upload directory: %v", err)
	}

	// ─── 4. Repository Layer ───
	repos := initRepositories(db.Conn)

	// ─── 5. WebSocket Hub ───
	//
	// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
	// `go hub.Run()` ayrı bir goroutine'de event loop başlatır:
	// register/unregister channel'larını dinler ve client map'ini günceller.
	// Hub aynı zamanda ws.EventPublisher interface'ini implement eder —
	// service'ler hub'a interface üzerinden erişir.
	hub := ws.NewHub()
	go hub.Run()

	// ─── 6. Service Layer ───
	svcs := initServices(db.Conn, repos, hub, cfg)
	defer svcs.LoginLimiter.Close()

	// ─── 7. Hub Callbacks ───
	registerHubCallbacks(hub, repos.User, svcs.Chat, svcs.Call)

	// ─── 8. Handler Layer ───
	h := initHandlers(svcs, hub)

	// ─── 9. HTTP Router ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth, repos.User, cfg.Upload.Dir)

	// ─── 10. CORS ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(mux)

	// ─── 11. HTTP Server ───
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      corsHandler,
		ReadTimeout:  0, // WebSocket bağlantıları uzun ömürlü — global read timeout yok
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on %s", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	// ─── 12. Graceful Shutdown ───
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("[main] shutting down...")

	// Çalan arama timer'ları ve WS bağlantıları kapanıştan önce temizlenir.
	svcs.Call.Shutdown()
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped")
}
