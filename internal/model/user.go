package model

import "time"

// Roles stored in the users table.  ADMIN unlocks resource and user
// management endpoints; USER may browse resources and manage bookings.
const (
    RoleAdmin = "ADMIN"
    RoleUser  = "USER"
)

// User represents an application user record as stored in the `users`
// table.  PasswordHash holds a bcrypt digest and is never serialized;
// handlers define separate response types exposing only public fields.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role (ADMIN or USER)
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  The plain
// token is not stored; only its SHA-256 hash.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
