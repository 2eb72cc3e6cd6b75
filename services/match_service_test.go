package services

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/database"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/repository"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/ws"
)

// matchFixture, MatchService'i gerçek bir SQLite dosyası üzerinde kurar.
// Match + conversation tek transaction'da yaratıldığı için bu akış fake
// repository ile değil, migration'ları koşulmuş gerçek DB ile test edilir.
type matchFixture struct {
	hub      *fakeHub
	block    *fakeBlockChecker
	users    repository.UserRepository
	matches  repository.MatchRepository
	convos   repository.ConversationRepository
	activity *fakeActivityLog
	svc      MatchService
}

func newMatchFixture(t *testing.T) *matchFixture {
	t.Helper()

	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		t.Fatalf("migrations fs: %v", err)
	}
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrations)
	if err != nil {
		t.Fatalf("database.New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	f := &matchFixture{
		hub:      newFakeHub(),
		block:    &fakeBlockChecker{},
		users:    repository.NewSQLiteUserRepo(db.Conn),
		matches:  repository.NewSQLiteMatchRepo(db.Conn),
		convos:   repository.NewSQLiteConversationRepo(db.Conn),
		activity: &fakeActivityLog{},
	}
	f.svc = NewMatchService(
		db.Conn,
		f.matches,
		f.convos,
		f.users,
		repository.NewSQLitePhotoRepo(db.Conn),
		f.block,
		f.activity,
		f.hub,
	)
	return f
}

// createUser, doğrulanmış bir test kullanıcısı yaratır ve ID'sini döner.
func (f *matchFixture) createUser(t *testing.T, username string) string {
	t.Helper()
	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Status:       models.UserStatusOffline,
	}
	ctx := context.Background()
	if err := f.users.Create(ctx, user); err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if err := f.users.SetVerified(ctx, user.ID, true); err != nil {
		t.Fatalf("verify user %s: %v", username, err)
	}
	return user.ID
}

func TestLikeWithoutReciprocityIsNotAMatch(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	resp, err := f.svc.Like(ctx, alice, bob)
	if err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if resp.Matched {
		t.Error("one-sided like reported as match")
	}

	matched, err := f.matches.AreMatched(ctx, alice, bob)
	if err != nil {
		t.Fatalf("AreMatched() error = %v", err)
	}
	if matched {
		t.Error("match row created for one-sided like")
	}
	if n := len(f.hub.eventsFor(bob, ws.OpMatchCreate)); n != 0 {
		t.Errorf("match_create events = %d, want 0", n)
	}
}

func TestMutualLikeCreatesMatchAndConversation(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	if _, err := f.svc.Like(ctx, alice, bob); err != nil {
		t.Fatalf("first Like() error = %v", err)
	}
	resp, err := f.svc.Like(ctx, bob, alice)
	if err != nil {
		t.Fatalf("reciprocal Like() error = %v", err)
	}
	if !resp.Matched || resp.MatchID == "" {
		t.Fatalf("reciprocal like response = %+v, want match", resp)
	}

	// Match ve conversation birlikte var olmalı
	match, err := f.matches.GetMatchByID(ctx, resp.MatchID)
	if err != nil {
		t.Fatalf("GetMatchByID() error = %v", err)
	}
	if match.ConversationID == "" {
		t.Error("match has no conversation")
	}

	// Her iki tarafa da match_create gider
	for _, userID := range []string{alice, bob} {
		if n := len(f.hub.eventsFor(userID, ws.OpMatchCreate)); n != 1 {
			t.Errorf("match_create events to %s = %d, want 1", userID, n)
		}
	}
	if f.activity.count() != 1 {
		t.Errorf("activity entries = %d, want 1", f.activity.count())
	}

	// Eşleşme iki taraf için de listelenir
	list, err := f.svc.ListMatches(ctx, bob)
	if err != nil {
		t.Fatalf("ListMatches() error = %v", err)
	}
	if len(list) != 1 || list[0].Profile.Username != "alice" {
		t.Errorf("ListMatches(bob) = %+v, want alice", list)
	}
}

func TestLikeValidation(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")

	if _, err := f.svc.Like(ctx, alice, alice); !errors.Is(err, pkg.ErrBadRequest) {
		t.Errorf("Like(self) error = %v, want ErrBadRequest", err)
	}

	// Tekrarlanan beğeni
	if _, err := f.svc.Like(ctx, alice, bob); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if _, err := f.svc.Like(ctx, alice, bob); !errors.Is(err, pkg.ErrAlreadyExists) {
		t.Errorf("duplicate Like() error = %v, want ErrAlreadyExists", err)
	}
}

func TestLikeRequiresVerifiedLiker(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()
	bob := f.createUser(t, "bob")

	// carol doğrulanmamış
	carol := &models.User{
		Email:        "carol@example.com",
		Username:     "carol",
		PasswordHash: "not-a-real-hash",
		Status:       models.UserStatusOffline,
	}
	if err := f.users.Create(ctx, carol); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := f.svc.Like(ctx, carol.ID, bob); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Like(unverified liker) error = %v, want ErrForbidden", err)
	}
}

func TestLikeBlockedPairBehavesAsNotFound(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	f.block.blocked = true

	// Engelleme varlığı sızdırılmaz — hedef yokmuş gibi davranılır
	if _, err := f.svc.Like(ctx, alice, bob); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("Like(blocked pair) error = %v, want ErrNotFound", err)
	}
}

func TestUnmatchRemovesMatch(t *testing.T) {
	f := newMatchFixture(t)
	ctx := context.Background()
	alice := f.createUser(t, "alice")
	bob := f.createUser(t, "bob")
	carol := f.createUser(t, "carol")

	if _, err := f.svc.Like(ctx, alice, bob); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	resp, err := f.svc.Like(ctx, bob, alice)
	if err != nil {
		t.Fatalf("Like() error = %v", err)
	}

	// Eşleşmenin tarafı olmayan kullanıcı kaldıramaz
	if err := f.svc.Unmatch(ctx, carol, resp.MatchID); !errors.Is(err, pkg.ErrForbidden) {
		t.Errorf("Unmatch(outsider) error = %v, want ErrForbidden", err)
	}

	match, err := f.matches.GetMatchByID(ctx, resp.MatchID)
	if err != nil {
		t.Fatalf("GetMatchByID() error = %v", err)
	}

	if err := f.svc.Unmatch(ctx, alice, resp.MatchID); err != nil {
		t.Fatalf("Unmatch() error = %v", err)
	}
	matched, err := f.matches.AreMatched(ctx, alice, bob)
	if err != nil {
		t.Fatalf("AreMatched() error = %v", err)
	}
	if matched {
		t.Error("match still present after Unmatch")
	}
	// Bağlı konuşma da aynı transaction'da silinir
	if _, err := f.convos.GetByID(ctx, match.ConversationID); !errors.Is(err, pkg.ErrNotFound) {
		t.Errorf("GetByID(conversation) error = %v, want ErrNotFound", err)
	}

	// Her iki taraf da kaldırmayı WS üzerinden öğrenir
	for _, userID := range []string{alice, bob} {
		evs := f.hub.eventsFor(userID, ws.OpMatchRemove)
		if len(evs) != 1 {
			t.Fatalf("match_remove events to %s = %d, want 1", userID, len(evs))
		}
		payload := evs[0].Event.Data.(models.MatchRemove)
		if payload.MatchID != resp.MatchID || payload.ConversationID != match.ConversationID {
			t.Errorf("match_remove payload = %+v", payload)
		}
	}
}
