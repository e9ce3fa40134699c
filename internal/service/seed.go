package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"giftlink/backend/internal/model"
	"giftlink/backend/internal/store"

	"go.uber.org/zap"
)

type seedGift struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Condition   string  `json:"condition"`
	AgeDays     int     `json:"age_days"`
	AgeYears    float64 `json:"age_years"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	DateAdded   int64   `json:"date_added"`
}

// SeedGifts imports the JSON array of gifts stored at path, but only when
// the gift collection is still empty. Returns the number of imported gifts.
func SeedGifts(ctx context.Context, gifts store.GiftStore, path string) (int, error) {
	n, err := gifts.Count(ctx)
	if err != nil {
		return 0, err
	}

	if n > 0 {
		zap.L().Debug("Gift collection not empty, skipping seed", zap.Int64("count", n))
		return 0, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file, %w", err)
	}

	var raw []seedGift
	if err := json.Unmarshal(b, &raw); err != nil {
		return 0, fmt.Errorf("failed to parse seed file, %w", err)
	}

	toImport := make([]model.Gift, 0, len(raw))
	for _, g := range raw {
		if g.Name == "" {
			continue
		}

		toImport = append(toImport, model.Gift{
			AppID:       g.ID,
			Name:        g.Name,
			Category:    g.Category,
			Condition:   g.Condition,
			AgeDays:     g.AgeDays,
			AgeYears:    g.AgeYears,
			Description: g.Description,
			Image:       g.Image,
			DateAdded:   g.DateAdded,
		})
	}

	if err := gifts.Import(ctx, toImport); err != nil {
		return 0, err
	}

	return len(toImport), nil
}
