// Package models, uygulamanın domain modellerini (veri yapıları) tanımlar.
//
// Model, veritabanındaki bir tablonun Go karşılığıdır ve aynı zamanda
// API'den gelen/giden verilerin şeklini belirler.
// `json:"..."` tag'leri struct field'larının JSON'a nasıl serialize
// edileceğini belirler.
package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// UserStatus, kullanıcının çevrimiçi durumunu temsil eder.
// Go'da enum yoktur — typed string constant'lar kullanılır.
type UserStatus string

const (
	UserStatusOnline  UserStatus = "online"
	UserStatusAway    UserStatus = "away"
	UserStatusOffline UserStatus = "offline"
)

// Gender, profil cinsiyeti ve "seeking" tercihi için kullanılan typed constant.
// "any" sadece seeking alanında geçerlidir.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
	GenderAny    Gender = "any" // Sadece seeking için
)

// User, bir kullanıcıyı ve dating profilini temsil eder.
//
// Profil alanları ayrı tabloya bölünmedi — platformda kullanıcı ve profil
// bire bir eşleşir; her discovery sorgusunda JOIN maliyeti gereksiz olurdu.
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	DisplayName  *string    `json:"display_name"` // *string = nullable
	BirthDate    *time.Time `json:"birth_date"`
	Gender       *Gender    `json:"gender"`
	Seeking      *Gender    `json:"seeking"`
	Bio          *string    `json:"bio"`
	City         *string    `json:"city"`
	Interests    []string   `json:"interests"` // DB'de JSON array olarak saklanır
	PasswordHash string     `json:"-"`         // json:"-" → API response'a DAHİL ETME
	Status       UserStatus `json:"status"`
	Verified     bool       `json:"verified"`  // Email doğrulandı mı
	Suspended    bool       `json:"suspended"` // Moderasyon tarafından askıya alındı mı
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Age, doğum tarihinden yaşı hesaplar. BirthDate nil ise 0 döner.
func (u *User) Age() int {
	if u.BirthDate == nil {
		return 0
	}
	now := time.Now().UTC()
	age := now.Year() - u.BirthDate.Year()
	// Doğum günü bu yıl henüz gelmediyse bir eksilt
	if now.YearDay() < u.BirthDate.YearDay() {
		age--
	}
	return age
}

// ProfileComplete, onboarding'in tamamlanıp tamamlanmadığını döner.
// Derived değerdir — DB'de saklanmaz. Fotoğraf kontrolü service katmanında
// yapılır (photos ayrı tabloda).
func (u *User) ProfileComplete() bool {
	return u.BirthDate != nil && u.Gender != nil && u.Seeking != nil &&
		u.Bio != nil && *u.Bio != ""
}

// Photo, bir profil fotoğrafını temsil eder.
// Position 0 olan fotoğraf avatar olarak kullanılır.
type Photo struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FileURL   string    `json:"file_url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// MaxPhotos, bir profilde tutulabilecek maksimum fotoğraf sayısı.
const MaxPhotos = 6

// PublicProfile, discovery ve match listelerinde dönen profil projeksiyonu.
// Email gibi hassas alanlar içermez.
type PublicProfile struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	DisplayName *string    `json:"display_name"`
	Age         int        `json:"age"`
	Gender      *Gender    `json:"gender"`
	Bio         *string    `json:"bio"`
	City        *string    `json:"city"`
	Interests   []string   `json:"interests"`
	Status      UserStatus `json:"status"`
	Photos      []Photo    `json:"photos"`
}

// ToPublicProfile, User'dan hassas alanları ayıklayarak projeksiyon üretir.
// Photos caller tarafından doldurulur.
func (u *User) ToPublicProfile() PublicProfile {
	return PublicProfile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Age:         u.Age(),
		Gender:      u.Gender,
		Bio:         u.Bio,
		City:        u.City,
		Interests:   u.Interests,
		Status:      u.Status,
	}
}

// CreateUserRequest, kayıt olurken frontend'den gelen veri.
// PasswordHash yerine Password alırız — hash'leme service katmanında yapılır.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate, CreateUserRequest kontrolü.
//   - Email: basit şekil kontrolü (tam RFC validasyonu gereksiz — doğrulama
//     kodu zaten adrese gönderilir, ulaşmayan adres doğrulanamaz)
//   - Username: 3-32 karakter, alfanumerik + alt çizgi
//   - Password: minimum 8 karakter
func (r *CreateUserRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if !looksLikeEmail(r.Email) {
		return fmt.Errorf("a valid email address is required")
	}

	r.Username = strings.TrimSpace(r.Username)
	usernameLen := utf8.RuneCountInString(r.Username)
	if usernameLen < 3 || usernameLen > 32 {
		return fmt.Errorf("username must be between 3 and 32 characters")
	}
	for _, ch := range r.Username {
		if !isValidUsernameChar(ch) {
			return fmt.Errorf("username can only contain letters, numbers, and underscores")
		}
	}

	if utf8.RuneCountInString(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	return nil
}

// LoginRequest, giriş yaparken frontend'den gelen veri.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate, LoginRequest kontrolü.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if r.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}

// UpdateProfileRequest, profil güncellemesi için (partial update).
// Pointer alanlar nil ise o alan değiştirilmez.
type UpdateProfileRequest struct {
	DisplayName *string  `json:"display_name"`
	BirthDate   *string  `json:"birth_date"` // "2006-01-02" formatında
	Gender      *Gender  `json:"gender"`
	Seeking     *Gender  `json:"seeking"`
	Bio         *string  `json:"bio"`
	City        *string  `json:"city"`
	Interests   []string `json:"interests"`
}

// minAge, platforma kayıt için alt yaş sınırı.
const minAge = 18

// Validate, UpdateProfileRequest kontrolü.
// BirthDate parse edilir ve 18 yaş kontrolü yapılır.
func (r *UpdateProfileRequest) Validate() error {
	if r.DisplayName != nil {
		*r.DisplayName = strings.TrimSpace(*r.DisplayName)
		if utf8.RuneCountInString(*r.DisplayName) > 32 {
			return fmt.Errorf("display name must be at most 32 characters")
		}
	}

	if r.BirthDate != nil {
		bd, err := time.Parse("2006-01-02", *r.BirthDate)
		if err != nil {
			return fmt.Errorf("birth_date must be in YYYY-MM-DD format")
		}
		if bd.After(time.Now().UTC().AddDate(-minAge, 0, 0)) {
			return fmt.Errorf("you must be at least %d years old", minAge)
		}
	}

	if r.Gender != nil && !isValidGender(*r.Gender, false) {
		return fmt.Errorf("gender must be one of: female, male, other")
	}
	if r.Seeking != nil && !isValidGender(*r.Seeking, true) {
		return fmt.Errorf("seeking must be one of: female, male, other, any")
	}

	if r.Bio != nil {
		*r.Bio = strings.TrimSpace(*r.Bio)
		if utf8.RuneCountInString(*r.Bio) > 500 {
			return fmt.Errorf("bio must be at most 500 characters")
		}
	}

	if r.City != nil {
		*r.City = strings.TrimSpace(*r.City)
		if utf8.RuneCountInString(*r.City) > 64 {
			return fmt.Errorf("city must be at most 64 characters")
		}
	}

	if len(r.Interests) > 10 {
		return fmt.Errorf("at most 10 interests are allowed")
	}
	for i := range r.Interests {
		r.Interests[i] = strings.TrimSpace(r.Interests[i])
		if r.Interests[i] == "" || utf8.RuneCountInString(r.Interests[i]) > 32 {
			return fmt.Errorf("each interest must be 1-32 characters")
		}
	}

	return nil
}

// DiscoverFilters, keşfet sorgusunun filtre parametreleri.
// Sıfır değerler "filtre yok" anlamına gelir.
type DiscoverFilters struct {
	Gender Gender // Boş veya "any" → cinsiyet filtresi yok
	MinAge int
	MaxAge int
	City   string
	Limit  int
	Offset int
}

// isValidGender, gender/seeking değerlerini kontrol eder.
// allowAny: "any" sadece seeking alanında geçerli.
func isValidGender(g Gender, allowAny bool) bool {
	switch g {
	case GenderFemale, GenderMale, GenderOther:
		return true
	case GenderAny:
		return allowAny
	}
	return false
}

// looksLikeEmail, kaba bir email şekil kontrolü yapar.
func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.ContainsAny(s, " \t")
}

// isValidUsernameChar, username'de izin verilen karakterleri kontrol eder.
func isValidUsernameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_'
}
