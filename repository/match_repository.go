package repository

import (
	"context"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
)

// MatchRepository, likes ve matches tablolarının veritabanı işlemleri.
//
// İki tablo tek repository'de toplanır çünkü aralarındaki geçiş
// (karşılıklı beğeni → match) tek bir iş akışının parçasıdır.
type MatchRepository interface {
	CreateLike(ctx context.Context, like *models.Like) error
	// LikeExists, liker'ın liked'ı beğenip beğenmediğini döner.
	// Karşılıklı beğeni kontrolü için parametreler ters sırayla çağrılır.
	LikeExists(ctx context.Context, likerID, likedID string) (bool, error)
	// CreateMatch, match kaydını yazar. user1_id < user2_id sıralaması
	// çağıranın sorumluluğudur. Conversation ile aynı transaction'da
	// çağrılmalıdır — database.WithTx kullan.
	CreateMatch(ctx context.Context, match *models.Match) error
	GetMatchByID(ctx context.Context, id string) (*models.Match, error)
	GetMatchByUsers(ctx context.Context, user1ID, user2ID string) (*models.Match, error)
	ListMatchesByUser(ctx context.Context, userID string) ([]models.Match, error)
	// AreMatched, iki kullanıcı arasında match olup olmadığını döner.
	// Mesajlaşma ve arama yetki kontrollerinin temelidir.
	AreMatched(ctx context.Context, userA, userB string) (bool, error)
	// DeleteMatch, match'i ve bağlı like kayıtlarını siler (unmatch).
	DeleteMatch(ctx context.Context, id string) error
	CountMatches(ctx context.Context) (int, error)
}
