// Package services — MatchService: beğeni ve eşleşme iş mantığı.
//
// Akış:
// 1. Kullanıcı birini beğenir → Like kaydı yazılır
// 2. Karşı taraf daha önce beğenmişse → match + conversation TEK
//    transaction'da oluşturulur (match var, conversation yok durumu
//    oluşamaz)
// 3. Her iki tarafa match_create WS event'i gönderilir
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/database"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// MatchService, beğeni ve eşleşme operasyonları için interface.
type MatchService interface {
	// Like, hedef kullanıcıyı beğenir. Karşılıklı beğeni oluşursa
	// match + conversation yaratılır ve Matched=true döner.
	Like(ctx context.Context, likerID, targetID string) (*models.LikeResponse, error)

	// ListMatches, kullanıcının eşleşmelerini karşı taraf profiliyle döner.
	ListMatches(ctx context.Context, userID string) ([]models.MatchWithProfile, error)

	// Unmatch, eşleşmeyi kaldırır. Conversation ve mesajlar da silinir.
	Unmatch(ctx context.Context, userID, matchID string) error
}

type matchService struct {
	db               *sql.DB // WithTx için — match + conversation atomik yaratılır
	matchRepo        repository.MatchRepository
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	photoRepo        repository.PhotoRepository
	blocks           BlockChecker
	activityLog      ActivityLogger
	hub              ws.EventPublisher
}

func NewMatchService(
	db *sql.DB,
	matchRepo repository.MatchRepository,
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	photoRepo repository.PhotoRepository,
	blocks BlockChecker,
	activityLog ActivityLogger,
	hub ws.EventPublisher,
) MatchService {
	return &matchService{
		db:               db,
		matchRepo:        matchRepo,
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		photoRepo:        photoRepo,
		blocks:           blocks,
		activityLog:      activityLog,
		hub:              hub,
	}
}

func (s *matchService) Like(ctx context.Context, likerID, targetID string) (*models.LikeResponse, error) {
	// 1. Kendini beğenemez
	if likerID == targetID {
		return nil, fmt.Errorf("%w: cannot like yourself", pkg.ErrBadRequest)
	}

	// 2. Liker doğrulanmış mı?
	liker, err := s.userRepo.GetByID(ctx, likerID)
	if err != nil {
		return nil, err
	}
	if !liker.Verified {
		return nil, fmt.Errorf("%w: verify your email first", pkg.ErrForbidden)
	}

	// 3. Hedef var mı, askıda mı?
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Suspended {
		return nil, pkg.ErrNotFound // Askıdaki hesap görünmez davranır
	}

	// 4. Engelleme kontrolü
	blocked, err := s.blocks.IsBlockedEither(ctx, likerID, targetID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, pkg.ErrNotFound
	}

	// 5. Like kaydı
	like := &models.Like{LikerID: likerID, LikedID: targetID}
	if err := s.matchRepo.CreateLike(ctx, like); err != nil {
		if errors.Is(err, pkg.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: already liked", pkg.ErrAlreadyExists)
		}
		return nil, err
	}

	// 6. Karşılıklı beğeni var mı?
	mutual, err := s.matchRepo.LikeExists(ctx, targetID, likerID)
	if err != nil {
		return nil, err
	}
	if !mutual {
		return &models.LikeResponse{Matched: false}, nil
	}

	// 7. Match + Conversation atomik yaratılır.
	// user1_id < user2_id sıralaması burada garanti edilir.
	user1, user2 := likerID, targetID
	if user1 > user2 {
		user1, user2 = user2, user1
	}

	match := &models.Match{User1ID: user1, User2ID: user2}
	conversation := &models.Conversation{User1ID: user1, User2ID: user2}

	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// Transaction-bound repository'ler — aynı tx üzerinden çalışır
		txMatchRepo := repository.NewSQLiteMatchRepo(tx)
		txConversationRepo := repository.NewSQLiteConversationRepo(tx)

		// Match önce yaratılır (conversation_id sonradan bağlanır) —
		// UNIQUE(user1_id, user2_id) yarışan ikinci isteği burada durdurur
		if err := txMatchRepo.CreateMatch(ctx, match); err != nil {
			return err
		}

		conversation.MatchID = match.ID
		if err := txConversationRepo.Create(ctx, conversation); err != nil {
			return err
		}

		// matches.conversation_id geri bağlanır
		_, err := tx.ExecContext(ctx,
			`UPDATE matches SET conversation_id = ? WHERE id = ?`,
			conversation.ID, match.ID,
		)
		if err == nil {
			match.ConversationID = conversation.ID
		}
		return err
	})
	if err != nil {
		// Aynı anda iki Like isteği yarışırsa ikincisi UNIQUE'e çarpar —
		// match zaten var, başarı olarak raporla
		if errors.Is(err, pkg.ErrAlreadyExists) {
			existing, getErr := s.matchRepo.GetMatchByUsers(ctx, likerID, targetID)
			if getErr == nil {
				return &models.LikeResponse{Matched: true, MatchID: existing.ID}, nil
			}
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	log.Printf("[match] new match: %s ↔ %s (id=%s)", user1, user2, match.ID)

	s.logActivity(ctx, likerID, targetID)
	s.notifyMatch(ctx, match)

	return &models.LikeResponse{Matched: true, MatchID: match.ID}, nil
}

func (s *matchService) ListMatches(ctx context.Context, userID string) ([]models.MatchWithProfile, error) {
	matches, err := s.matchRepo.ListMatchesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]models.MatchWithProfile, 0, len(matches))
	for i := range matches {
		otherID := matches[i].OtherUserID(userID)

		other, getErr := s.userRepo.GetByID(ctx, otherID)
		if getErr != nil {
			if errors.Is(getErr, pkg.ErrNotFound) {
				continue // Karşı taraf silinmiş — match listede görünmez
			}
			return nil, getErr
		}
		if other.Suspended {
			continue
		}

		profile := other.ToPublicProfile()
		photos, photoErr := s.photoRepo.ListByUser(ctx, otherID)
		if photoErr != nil {
			return nil, photoErr
		}
		profile.Photos = photos

		result = append(result, models.MatchWithProfile{
			ID:             matches[i].ID,
			ConversationID: matches[i].ConversationID,
			CreatedAt:      matches[i].CreatedAt,
			Profile:        profile,
		})
	}

	return result, nil
}

func (s *matchService) Unmatch(ctx context.Context, userID, matchID string) error {
	match, err := s.matchRepo.GetMatchByID(ctx, matchID)
	if err != nil {
		return err
	}
	if !match.Involves(userID) {
		return fmt.Errorf("%w: not part of this match", pkg.ErrForbidden)
	}

	// Conversation + match tek transaction'da silinir — arada hata olursa
	// conversation'sız match kalmaz
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		txConversationRepo := repository.NewSQLiteConversationRepo(tx)
		txMatchRepo := repository.NewSQLiteMatchRepo(tx)

		if err := txConversationRepo.Delete(ctx, match.ConversationID); err != nil {
			return err
		}
		return txMatchRepo.DeleteMatch(ctx, matchID)
	})
	if err != nil {
		return fmt.Errorf("failed to remove match: %w", err)
	}

	log.Printf("[match] unmatch: %s removed match %s", userID, matchID)

	// Her iki taraf da eşleşmenin (ve konuşmasının) gittiğini öğrenir
	payload := models.MatchRemove{MatchID: match.ID, ConversationID: match.ConversationID}
	s.hub.BroadcastToUser(match.User1ID, ws.Event{Op: ws.OpMatchRemove, Data: payload})
	s.hub.BroadcastToUser(match.User2ID, ws.Event{Op: ws.OpMatchRemove, Data: payload})

	return nil
}

// notifyMatch, her iki tarafa match_create event'i gönderir.
// Payload karşı tarafın profilini içerir — frontend match kartını
// fetch yapmadan render edebilir.
func (s *matchService) notifyMatch(ctx context.Context, match *models.Match) {
	for _, pair := range [][2]string{
		{match.User1ID, match.User2ID},
		{match.User2ID, match.User1ID},
	} {
		recipient, other := pair[0], pair[1]

		otherUser, err := s.userRepo.GetByID(ctx, other)
		if err != nil {
			log.Printf("[match] failed to load profile for match notify: %v", err)
			continue
		}
		profile := otherUser.ToPublicProfile()
		if photos, photoErr := s.photoRepo.ListByUser(ctx, other); photoErr == nil {
			profile.Photos = photos
		}

		s.hub.BroadcastToUser(recipient, ws.Event{
			Op: ws.OpMatchCreate,
			Data: models.MatchWithProfile{
				ID:             match.ID,
				ConversationID: match.ConversationID,
				CreatedAt:      match.CreatedAt,
				Profile:        profile,
			},
		})
	}
}

func (s *matchService) logActivity(ctx context.Context, userID, targetID string) {
	if s.activityLog == nil {
		return
	}
	entry := &models.ActivityEntry{Type: models.ActivityMatch, UserID: userID, TargetID: &targetID}
	if err := s.activityLog.Create(ctx, entry); err != nil {
		log.Printf("[match] failed to record activity: %v", err)
	}
}
