// Package services — ModerationService: block, report ve admin aksiyonları.
package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// CallTerminator, moderasyon aksiyonlarının süren aramaları kesmesi için
// minimal interface. services.CallService bu interface'i otomatik karşılar.
type CallTerminator interface {
	HandleDisconnect(userID string)
}

// ModerationService, moderasyon operasyonları için interface.
type ModerationService interface {
	// Block, hedef kullanıcıyı engeller. Süren arama varsa kesilir.
	Block(ctx context.Context, blockerID, targetID string) error
	Unblock(ctx context.Context, blockerID, targetID string) error
	ListBlocked(ctx context.Context, blockerID string) ([]models.Block, error)

	// Report, hedef kullanıcı hakkında şikayet kaydı açar.
	Report(ctx context.Context, reporterID string, req *models.CreateReportRequest) (*models.Report, error)

	// ─── Admin operasyonları ───

	ListReports(ctx context.Context, status models.ReportStatus, limit int) ([]models.Report, error)
	ResolveReport(ctx context.Context, reportID string) error

	// Suspend, hesabı askıya alır: tüm oturumlar iptal edilir, süren
	// arama kesilir. Unsuspend geri açar.
	Suspend(ctx context.Context, targetID string) error
	Unsuspend(ctx context.Context, targetID string) error

	Stats(ctx context.Context) (*models.AdminStats, error)
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error)
}

type moderationService struct {
	blockRepo    repository.BlockRepository
	reportRepo   repository.ReportRepository
	activityRepo repository.ActivityRepository
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionRepository
	matchRepo    repository.MatchRepository
	calls        CallTerminator
	hub          ws.EventPublisher
}

func NewModerationService(
	blockRepo repository.BlockRepository,
	reportRepo repository.ReportRepository,
	activityRepo repository.ActivityRepository,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	matchRepo repository.MatchRepository,
	calls CallTerminator,
	hub ws.EventPublisher,
) ModerationService {
	return &moderationService{
		blockRepo:    blockRepo,
		reportRepo:   reportRepo,
		activityRepo: activityRepo,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		matchRepo:    matchRepo,
		calls:        calls,
		hub:          hub,
	}
}

func (s *moderationService) Block(ctx context.Context, blockerID, targetID string) error {
	if blockerID == targetID {
		return fmt.Errorf("%w: cannot block yourself", pkg.ErrBadRequest)
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	block := &models.Block{BlockerID: blockerID, BlockedID: targetID}
	if err := s.blockRepo.Create(ctx, block); err != nil {
		if errors.Is(err, pkg.ErrAlreadyExists) {
			return nil // İdempotent — zaten engelli
		}
		return err
	}

	// Süren arama varsa iki taraf için de kesilir
	if s.calls != nil {
		s.calls.HandleDisconnect(blockerID)
	}

	log.Printf("[moderation] user %s blocked %s", blockerID, targetID)
	return nil
}

func (s *moderationService) Unblock(ctx context.Context, blockerID, targetID string) error {
	err := s.blockRepo.Delete(ctx, blockerID, targetID)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil // İdempotent
	}
	return err
}

func (s *moderationService) ListBlocked(ctx context.Context, blockerID string) ([]models.Block, error) {
	return s.blockRepo.ListByBlocker(ctx, blockerID)
}

func (s *moderationService) Report(ctx context.Context, reporterID string, req *models.CreateReportRequest) (*models.Report, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if reporterID == req.UserID {
		return nil, fmt.Errorf("%w: cannot report yourself", pkg.ErrBadRequest)
	}

	if _, err := s.userRepo.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	report := &models.Report{
		ReporterID: reporterID,
		ReportedID: req.UserID,
		Reason:     req.Reason,
		Detail:     req.Detail,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logActivity(ctx, models.ActivityReport, reporterID, &req.UserID, &req.Reason)

	log.Printf("[moderation] user %s reported %s (reason=%s)", reporterID, req.UserID, req.Reason)
	return report, nil
}

func (s *moderationService) ListReports(ctx context.Context, status models.ReportStatus, limit int) ([]models.Report, error) {
	return s.reportRepo.ListByStatus(ctx, status, limit)
}

func (s *moderationService) ResolveReport(ctx context.Context, reportID string) error {
	return s.reportRepo.Resolve(ctx, reportID)
}

func (s *moderationService) Suspend(ctx context.Context, targetID string) error {
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target.IsAdmin {
		return fmt.Errorf("%w: cannot suspend an admin", pkg.ErrForbidden)
	}

	if err := s.userRepo.SetSuspended(ctx, targetID, true); err != nil {
		return err
	}

	// Tüm oturumlar iptal — refresh token'lar geçersizleşir
	if err := s.sessionRepo.DeleteByUser(ctx, targetID); err != nil {
		return err
	}

	// Süren arama kesilir
	if s.calls != nil {
		s.calls.HandleDisconnect(targetID)
	}

	log.Printf("[moderation] user %s suspended", targetID)
	return nil
}

func (s *moderationService) Unsuspend(ctx context.Context, targetID string) error {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	log.Printf("[moderation] user %s unsuspended", targetID)
	return s.userRepo.SetSuspended(ctx, targetID, false)
}

func (s *moderationService) Stats(ctx context.Context) (*models.AdminStats, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	verified, err := s.userRepo.CountVerified(ctx)
	if err != nil {
		return nil, err
	}
	suspended, err := s.userRepo.CountSuspended(ctx)
	if err != nil {
		return nil, err
	}
	matches, err := s.matchRepo.CountMatches(ctx)
	if err != nil {
		return nil, err
	}
	openReports, err := s.reportRepo.CountOpen(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AdminStats{
		TotalUsers:     total,
		VerifiedUsers:  verified,
		SuspendedUsers: suspended,
		TotalMatches:   matches,
		OpenReports:    openReports,
		OnlineUsers:    s.hub.CountOnline(),
	}, nil
}

func (s *moderationService) RecentActivity(ctx context.Context, limit int) ([]models.ActivityEntry, error) {
	return s.activityRepo.ListRecent(ctx, limit)
}

func (s *moderationService) logActivity(ctx context.Context, typ models.ActivityType, userID string, targetID, detail *string) {
	entry := &models.ActivityEntry{Type: typ, UserID: userID, TargetID: targetID, Detail: detail}
	if err := s.activityRepo.Create(ctx, entry); err != nil {
		log.Printf("[moderation] failed to record %s activity: %v", typ, err)
	}
}
