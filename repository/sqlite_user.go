package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/database"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/models"
	"github.com/davisbryan595-lang/buscando-amor-eterno-sub001/pkg"
)

// sqliteUserRepo, UserRepository interface'inin SQLite implementasyonu.
//
// Struct field'ı küçük harfle başladığı için (db) private — repository'nin
// DB bağlantısı dışarıya açık olmamalı.
type sqliteUserRepo struct {
	db database.TxQuerier
}

// NewSQLiteUserRepo, constructor fonksiyonu.
// Interface döner (concrete struct değil) — Dependency Inversion.
func NewSQLiteUserRepo(db database.TxQuerier) UserRepository {
	return &sqliteUserRepo{db: db}
}

// userColumns, tüm SELECT sorgularında kullanılan kolon listesi.
// Tek yerde tutmak Scan sırası ile SELECT sırasının ayrışmasını önler.
const userColumns = `id, email, username, display_name, birth_date, gender, seeking,
	bio, city, interests, password_hash, status, verified, suspended, is_admin, created_at`

func (r *sqliteUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = uuid.NewString()

	interests, err := marshalInterests(user.Interests)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, email, username, interests, password_hash, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		interests,
		user.PasswordHash,
		user.Status,
	).Scan(&user.CreatedAt)

	if err != nil {
		// UNIQUE constraint violation → email veya kullanıcı adı zaten var
		if isUniqueViolation(err) {
			if containsString(err.Error(), "users.email") {
				return fmt.Errorf("%w: email already in use", pkg.ErrAlreadyExists)
			}
			return fmt.Errorf("%w: username already taken", pkg.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *sqliteUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "get user by id")
}

func (r *sqliteUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email), "get user by email")
}

func (r *sqliteUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, username), "get user by username")
}

func (r *sqliteUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	interests, err := marshalInterests(user.Interests)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET display_name = ?, birth_date = ?, gender = ?, seeking = ?,
		    bio = ?, city = ?, interests = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		user.DisplayName, user.BirthDate, user.Gender, user.Seeking,
		user.Bio, user.City, interests, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}

	// RowsAffected 0 ise kullanıcı yok demektir — sessizce geçme
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteUserRepo) UpdateStatus(ctx context.Context, userID string, status models.UserStatus) error {
	query := `UPDATE users SET status = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, status, userID); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) UpdatePassword(ctx context.Context, userID string, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, newPasswordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check password update result: %w", err)
	}
	if rows == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteUserRepo) SetVerified(ctx context.Context, userID string, verified bool) error {
	query := `UPDATE users SET verified = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, verified, userID); err != nil {
		return fmt.Errorf("failed to set verified flag: %w", err)
	}
	return nil
}

func (r *sqliteUserRepo) SetSuspended(ctx context.Context, userID string, suspended bool) error {
	query := `UPDATE users SET suspended = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, suspended, userID); err != nil {
		return fmt.Errorf("failed to set suspended flag: %w", err)
	}
	return nil
}

// Discover, keşfet akışı için aday kullanıcıları döner.
//
// Sorgu, şu kullanıcıları eler:
//   - viewer'ın kendisi
//   - viewer'ın beğendiği kullanıcılar (tekrar gösterilmez)
//   - iki yönden herhangi biriyle engelleme olan kullanıcılar
//   - doğrulanmamış, askıya alınmış veya profili eksik kullanıcılar
func (r *sqliteUserRepo) Discover(ctx context.Context, viewerID string, filters models.DiscoverFilters) ([]models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users u
		WHERE u.id != ?
		  AND u.verified = 1
		  AND u.suspended = 0
		  AND u.birth_date IS NOT NULL
		  AND u.gender IS NOT NULL
		  AND u.seeking IS NOT NULL
		  AND u.bio IS NOT NULL AND u.bio != ''
		  AND NOT EXISTS (
		      SELECT 1 FROM likes l WHERE l.liker_id = ? AND l.liked_id = u.id
		  )
		  AND NOT EXISTS (
		      SELECT 1 FROM blocks b
		      WHERE (b.blocker_id = ? AND b.blocked_id = u.id)
		         OR (b.blocker_id = u.id AND b.blocked_id = ?)
		  )`
	args := []any{viewerID, viewerID, viewerID, viewerID}

	// Filtreler dinamik olarak eklenir — boş filtre sorguya girmez
	if filters.Gender != "" && filters.Gender != models.GenderAny {
		query += ` AND u.gender = ?`
		args = append(args, filters.Gender)
	}
	if filters.MinAge > 0 {
		// En az MinAge yaşında → doğum tarihi bugünden MinAge yıl öncesinde veya daha eski
		query += ` AND u.birth_date <= date('now', ?)`
		args = append(args, fmt.Sprintf("-%d years", filters.MinAge))
	}
	if filters.MaxAge > 0 {
		query += ` AND u.birth_date > date('now', ?)`
		args = append(args, fmt.Sprintf("-%d years", filters.MaxAge+1))
	}
	if filters.City != "" {
		query += ` AND u.city = ? COLLATE NOCASE`
		args = append(args, filters.City)
	}

	limit := filters.Limit
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	query += ` ORDER BY u.created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filters.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to discover users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate discover rows: %w", err)
	}

	return users, nil
}

func (r *sqliteUserRepo) Count(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "1=1")
}

func (r *sqliteUserRepo) CountVerified(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "verified = 1")
}

func (r *sqliteUserRepo) CountSuspended(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "suspended = 1")
}

func (r *sqliteUserRepo) countWhere(ctx context.Context, cond string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE `+cond).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *sqliteUserRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

// scanOne, tek satırlık sorguyu User'a çevirir.
func (r *sqliteUserRepo) scanOne(row *sql.Row, op string) (*models.User, error) {
	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return user, nil
}

// rowScanner, sql.Row ve sql.Rows'un ortak Scan method'unu soyutlar.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser, userColumns sırasıyla bir satırı User struct'ına okur.
// interests kolonu JSON string olarak gelir, burada slice'a açılır.
func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	var interestsJSON string

	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.DisplayName,
		&user.BirthDate, &user.Gender, &user.Seeking,
		&user.Bio, &user.City, &interestsJSON, &user.PasswordHash,
		&user.Status, &user.Verified, &user.Suspended, &user.IsAdmin, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(interestsJSON), &user.Interests); err != nil {
		return nil, fmt.Errorf("failed to decode interests: %w", err)
	}

	return user, nil
}

// marshalInterests, interests slice'ını DB'ye yazılacak JSON string'e çevirir.
// nil slice '[]' olarak yazılır — DB'de NULL interests olmaz.
func marshalInterests(interests []string) (string, error) {
	if interests == nil {
		interests = []string{}
	}
	data, err := json.Marshal(interests)
	if err != nil {
		return "", fmt.Errorf("failed to encode interests: %w", err)
	}
	return string(data), nil
}

// isUniqueViolation, SQLite UNIQUE constraint hatasını kontrol eder.
func isUniqueViolation(err error) bool {
	return err != nil && !errors.Is(err, sql.ErrNoRows) &&
		containsString(err.Error(), "UNIQUE constraint failed")
}

func containsString(s, substr string) bool {
	return len(s) >= len(substr) && searchString(s, substr)
}

func searchString(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
