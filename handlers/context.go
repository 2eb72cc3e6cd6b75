// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi çok basit ve "ince" (thin) olmalı:
// 1. Request body'yi parse et (JSON → struct)
// 2. Service katmanını çağır
// 3. Sonucu HTTP response olarak döndür
//
// Handler ASLA iş mantığı (business logic) içermez.
// Handler ASLA doğrudan DB'ye erişmez.
// Tüm akıl service'de, handler sadece köprü.
package handlers

// contextKey, context.Value için özel key tipi.
// String key kullanmak namespace collision'a neden olabilir —
// özel tip tanımlayarak çakışmayı önleriz.
type contextKey string

// UserContextKey, context'te kimliği doğrulanmış kullanıcıyı taşıyan key.
// AuthMiddleware tarafından eklenir, handler'lar
// r.Context().Value(UserContextKey).(*models.User) ile erişir.
const UserContextKey contextKey = "user"
