package sqlite_test

import "github.com/aussiebroadwan/tubetab/internal/auth/domain"

func storetestUser(id string) domain.User {
	return domain.User{
		ID:           id,
		Username:     "persisted",
		Email:        "persisted@example.com",
		FullName:     "Persisted",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		Avatar:       "https://cdn.example.com/p.png",
	}
}
