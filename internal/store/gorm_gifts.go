package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"giftlink/backend/internal/model"
	"giftlink/backend/pkg/util"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type GormGifts struct {
	DB *gorm.DB
}

func NewGormGifts(db *gorm.DB) *GormGifts {
	return &GormGifts{DB: db}
}

func (s *GormGifts) All(ctx context.Context) ([]model.Gift, error) {
	gifts := []model.Gift{}

	if err := s.DB.WithContext(ctx).Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch gifts, %w", err)
	}

	return gifts, nil
}

func (s *GormGifts) ByID(ctx context.Context, id string) (*model.Gift, error) {
	for _, column := range []string{"id", "app_id"} {
		var gift model.Gift

		err := s.DB.WithContext(ctx).
			Where(column+" = ?", id).
			First(&gift).
			Error
		if err == nil {
			return &gift, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to fetch gift, %w", err)
		}
	}

	return nil, ErrNotFound
}

func (s *GormGifts) Create(ctx context.Context, g *model.Gift) error {
	if err := prepareGift(g); err != nil {
		return err
	}

	if err := s.DB.WithContext(ctx).Create(g).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}

		return fmt.Errorf("failed to create gift, %w", err)
	}

	return nil
}

func (s *GormGifts) Search(ctx context.Context, f GiftFilter) ([]model.Gift, error) {
	q := s.DB.WithContext(ctx).Model(&model.Gift{})

	if f.Name != "" {
		q = q.Where(nameMatch(s.DB.Dialector.Name()), "%"+likeEscaper.Replace(strings.ToLower(f.Name))+"%")
	}

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	if f.Condition != "" {
		q = q.Where("condition = ?", f.Condition)
	}

	if f.MaxAgeYears != nil {
		q = q.Where("age_years <= ?", *f.MaxAgeYears)
	}

	gifts := []model.Gift{}
	if err := q.Find(&gifts).Error; err != nil {
		return nil, fmt.Errorf("failed to search gifts, %w", err)
	}

	return gifts, nil
}

// nameMatch is a case insensitive LIKE on the name column that also folds
// non-ASCII letters. The pattern is expected in lower case.
func nameMatch(dialect string) string {
	switch dialect {
	case "postgres":
		return `name ILIKE ? ESCAPE '\'`
	case "sqlite":
		// registered by db.SQLite
		return `unicode_lower(name) LIKE ? ESCAPE '\'`
	default:
		return `LOWER(name) LIKE ? ESCAPE '\'`
	}
}

func (s *GormGifts) Count(ctx context.Context) (int64, error) {
	var n int64

	if err := s.DB.WithContext(ctx).Model(&model.Gift{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count gifts, %w", err)
	}

	return n, nil
}

func (s *GormGifts) Import(ctx context.Context, gifts []model.Gift) error {
	if len(gifts) == 0 {
		return nil
	}

	for i := range gifts {
		if err := prepareGift(&gifts[i]); err != nil {
			return err
		}
	}

	if err := s.DB.WithContext(ctx).CreateInBatches(gifts, 100).Error; err != nil {
		return fmt.Errorf("failed to import gifts, %w", err)
	}

	return nil
}

// prepareGift fills in the fields every stored gift must have
func prepareGift(g *model.Gift) error {
	if g.ID == "" {
		id, err := util.NewID()
		if err != nil {
			return fmt.Errorf("failed to generate gift ID, %w", err)
		}
		g.ID = id
	}

	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	if g.DateAdded == 0 {
		g.DateAdded = g.CreatedAt.Unix()
	}

	return nil
}
