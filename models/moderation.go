// Package models — Block, Report ve activity log modelleri.
//
// Moderasyon üç mekanizmadan oluşur:
// - Block: kullanıcı seviyesi — iki taraf birbirini görmez, mesaj ve
//   arama sinyalleri engellenir
// - Report: moderasyon kuyruğuna düşen şikayet kaydı
// - Suspend: admin aksiyonu — hesap platformdan men edilir
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Block, bir kullanıcının başka bir kullanıcıyı engellemesini temsil eder.
// Tek yönlü kayıttır ama etkisi çift yönlüdür (iki taraf da birbirini görmez).
type Block struct {
	ID        string    `json:"id"`
	BlockerID string    `json:"blocker_id"`
	BlockedID string    `json:"blocked_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ReportStatus, şikayet kaydının moderasyon durumunu temsil eder.
type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "open"
	ReportStatusResolved ReportStatus = "resolved"
)

// Report, bir kullanıcı hakkındaki şikayeti temsil eder.
type Report struct {
	ID         string       `json:"id"`
	ReporterID string       `json:"reporter_id"`
	ReportedID string       `json:"reported_id"`
	Reason     string       `json:"reason"`
	Detail     *string      `json:"detail"`
	Status     ReportStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	ResolvedAt *time.Time   `json:"resolved_at"`
}

// reportReasons, kabul edilen şikayet nedenleri.
var reportReasons = map[string]bool{
	"fake_profile":  true,
	"harassment":    true,
	"inappropriate": true,
	"scam":          true,
	"other":         true,
}

// CreateReportRequest, POST /api/reports payload'ı.
type CreateReportRequest struct {
	UserID string  `json:"user_id"`
	Reason string  `json:"reason"`
	Detail *string `json:"detail"`
}

// Validate, CreateReportRequest kontrolü.
func (r *CreateReportRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if !reportReasons[r.Reason] {
		return fmt.Errorf("reason must be one of: fake_profile, harassment, inappropriate, scam, other")
	}
	if r.Detail != nil {
		*r.Detail = strings.TrimSpace(*r.Detail)
		if utf8.RuneCountInString(*r.Detail) > 1000 {
			return fmt.Errorf("detail must be at most 1000 characters")
		}
	}
	return nil
}

// ActivityType, activity log satırının türü.
type ActivityType string

const (
	ActivitySignup ActivityType = "signup"
	ActivityLogin  ActivityType = "login"
	ActivityMatch  ActivityType = "match"
	ActivityCall   ActivityType = "call"
	ActivityReport ActivityType = "report"
)

// ActivityEntry, append-only activity log kaydı.
// Admin panelinde platform hareketliliğini izlemek için kullanılır.
type ActivityEntry struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	UserID    string       `json:"user_id"`
	TargetID  *string      `json:"target_id"` // Karşı taraf (match, call, report için)
	Detail    *string      `json:"detail"`
	CreatedAt time.Time    `json:"created_at"`
}

// AdminStats, GET /api/admin/stats yanıtı.
type AdminStats struct {
	TotalUsers     int `json:"total_users"`
	VerifiedUsers  int `json:"verified_users"`
	SuspendedUsers int `json:"suspended_users"`
	TotalMatches   int `json:"total_matches"`
	OpenReports    int `json:"open_reports"`
	OnlineUsers    int `json:"online_users"`
}
