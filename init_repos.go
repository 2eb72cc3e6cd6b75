// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository bir *sql.DB bağlantısı alır ve interface döner.
// main.go'daki wire-up'ı modülerleştirmek için bu dosyaya taşındı.
package main

import (
	"database/sql"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
)

// Repositories, tüm repository instance'larını tutan container struct.
//
// Neden struct? 10 ayrı repository değişkeni yerine tek struct kullanmak:
// 1. Fonksiyon imzalarını temiz tutar
// 2. Yeni repository eklendiğinde sadece struct + initRepositories güncellenir
// 3. IDE auto-complete ile kolay erişim (repos.User, repos.Match, vb.)
type Repositories struct {
	User         repository.UserRepository
	Photo        repository.PhotoRepository
	Session      repository.SessionRepository
	Verification repository.VerificationRepository
	Match        repository.MatchRepository
	Conversation repository.ConversationRepository
	Message      repository.MessageRepository
	Block        repository.BlockRepository
	Report       repository.ReportRepository
	Activity     repository.ActivityRepository
}

// initRepositories, veritabanı bağlantısından tüm repository'leri oluşturur.
//
// Her NewSQLite* fonksiyonu aynı *sql.DB'yi alır — Go'nun sql.DB'si
// thread-safe connection pool'dur, paylaşılması güvenlidir.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		User:         repository.NewSQLiteUserRepo(conn),
		Photo:        repository.NewSQLitePhotoRepo(conn),
		Session:      repository.NewSQLiteSessionRepo(conn),
		Verification: repository.NewSQLiteVerificationRepo(conn),
		Match:        repository.NewSQLiteMatchRepo(conn),
		Conversation: repository.NewSQLiteConversationRepo(conn),
		Message:      repository.NewSQLiteMessageRepo(conn),
		Block:        repository.NewSQLiteBlockRepo(conn),
		Report:       repository.NewSQLiteReportRepo(conn),
		Activity:     repository.NewSQLiteActivityRepo(conn),
	}
}
