package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects to postgres and runs migrations. The caller treats a
// failure here as fatal: no sale can commit without a reachable store.
func Open(dsn string, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&Auction{}, &Team{}, &Player{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// MarkPlayerSold flags the player sold to teamID at price and credits
// the team's spend, as one transaction. A player already flagged sold
// is left untouched so a repeated sale cannot double-charge the team.
func (s *Store) MarkPlayerSold(ctx context.Context, playerID, teamID string, price int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Player{}).
			Where("id = ? AND sold = ?", playerID, false).
			Updates(map[string]any{"sold": true, "sold_price": price, "team_id": teamID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&Player{}).Where("id = ?", playerID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
			}
			// Already sold; nothing to credit.
			s.log.Warn("player already sold, skipping credit", zap.String("player", playerID))
			return nil
		}
		res = tx.Model(&Team{}).
			Where("id = ?", teamID).
			Update("spent", gorm.Expr("spent + ?", price))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("team %s: %w", teamID, ErrNotFound)
		}
		return nil
	})
}

func (s *Store) MarkPlayerUnsold(ctx context.Context, playerID string) error {
	res := s.db.WithContext(ctx).Model(&Player{}).
		Where("id = ?", playerID).
		Updates(map[string]any{"sold": false, "sold_price": 0, "team_id": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	return nil
}

func (s *Store) CreateAuction(ctx context.Context, a *Auction) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(a).Error
}

func (s *Store) AuctionByCode(ctx context.Context, code string) (*Auction, error) {
	var a Auction
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateTeam(ctx context.Context, t *Team) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *Store) CreatePlayer(ctx context.Context, p *Player) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *Store) TeamsByAuction(ctx context.Context, auctionID string) ([]Team, error) {
	var teams []Team
	err := s.db.WithContext(ctx).Where("auction_id = ?", auctionID).Order("name").Find(&teams).Error
	return teams, err
}

func (s *Store) PlayersByAuction(ctx context.Context, auctionID string) ([]Player, error) {
	var players []Player
	err := s.db.WithContext(ctx).Where("auction_id = ?", auctionID).Order("name").Find(&players).Error
	return players, err
}
