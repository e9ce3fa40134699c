package internal

import (
	"giftlink/backend/internal/service"
	"giftlink/backend/internal/store"
	"giftlink/backend/pkg/security"
)

type Deps struct {
	Users  store.UserStore
	Gifts  store.GiftStore
	Tokens *security.TokenIssuer
	Hasher *security.PasswordHasher
	// Images is nil when object storage is disabled
	Images        service.ImageUploader
	MaxUploadSize int64
}
