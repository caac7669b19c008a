package repository

import (
	"context"
	"database/sql"
	"fmt"

	"code_arena/internal/domain/model"
)

// BadgeRepository serves the badge catalog and the award records. The
// at-most-once award invariant is the unique (account_id, badge_id) key on
// account_badges; InsertAward reports a conflict as inserted == false rather
// than an error.
type BadgeRepository interface {
	SeedCatalog(ctx context.Context, defs []model.BadgeDefinition) error
	ListActive(ctx context.Context) ([]model.BadgeDefinition, error)
	ListEarnedBadgeIDs(ctx context.Context, accountID string) (map[string]bool, error)
	InsertAward(ctx context.Context, award model.AwardRecord) (bool, error)
	IncrementAwardedCount(ctx context.Context, badgeID string) error
}

type pgBadgeRepository struct {
	db *sql.DB
}

func NewPgBadgeRepository(db *sql.DB) BadgeRepository {
	return &pgBadgeRepository{db: db}
}

// SeedCatalog upserts definitions without touching awarded counters, so
// re-seeding on every startup is safe.
func (r *pgBadgeRepository) SeedCatalog(ctx context.Context, defs []model.BadgeDefinition) error {
	query := `INSERT INTO badges (badge_id, name, description, icon, emoji, category, rarity, color, criteria, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          ON CONFLICT (badge_id) DO UPDATE SET
	            name = EXCLUDED.name, description = EXCLUDED.description, icon = EXCLUDED.icon,
	            emoji = EXCLUDED.emoji, category = EXCLUDED.category, rarity = EXCLUDED.rarity,
	            color = EXCLUDED.color, criteria = EXCLUDED.criteria, is_active = EXCLUDED.is_active,
	            updated_at = CURRENT_TIMESTAMP`

	for _, def := range defs {
		criteria, err := model.EncodeCriteria(def.Criteria)
		if err != nil {
			return fmt.Errorf("pgBadgeRepository.SeedCatalog encode %s: %w", def.ID, err)
		}
		if _, err := r.db.ExecContext(ctx, query, def.ID, def.Name, def.Description, def.Icon, def.Emoji,
			def.Category, def.Rarity, def.Color, criteria, def.IsActive); err != nil {
			return fmt.Errorf("pgBadgeRepository.SeedCatalog %s: %w", def.ID, err)
		}
	}
	return nil
}

func (r *pgBadgeRepository) ListActive(ctx context.Context) ([]model.BadgeDefinition, error) {
	query := `SELECT badge_id, name, description, icon, emoji, category, rarity, color, criteria,
	                 awarded_count, is_active, created_at, updated_at
	          FROM badges WHERE is_active = TRUE ORDER BY badge_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgBadgeRepository.ListActive query: %w", err)
	}
	defer rows.Close()

	var defs []model.BadgeDefinition
	for rows.Next() {
		var def model.BadgeDefinition
		var criteria []byte
		if err := rows.Scan(&def.ID, &def.Name, &def.Description, &def.Icon, &def.Emoji, &def.Category,
			&def.Rarity, &def.Color, &criteria, &def.AwardedCount, &def.IsActive, &def.CreatedAt, &def.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgBadgeRepository.ListActive scan: %w", err)
		}
		def.Criteria, err = model.DecodeCriteria(criteria)
		if err != nil {
			return nil, fmt.Errorf("pgBadgeRepository.ListActive decode %s: %w", def.ID, err)
		}
		defs = append(defs, def)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgBadgeRepository.ListActive rows.Err: %w", err)
	}
	return defs, nil
}

func (r *pgBadgeRepository) ListEarnedBadgeIDs(ctx context.Context, accountID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT badge_id FROM account_badges WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, fmt.Errorf("pgBadgeRepository.ListEarnedBadgeIDs query: %w", err)
	}
	defer rows.Close()

	earned := map[string]bool{}
	for rows.Next() {
		var badgeID string
		if err := rows.Scan(&badgeID); err != nil {
			return nil, fmt.Errorf("pgBadgeRepository.ListEarnedBadgeIDs scan: %w", err)
		}
		earned[badgeID] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgBadgeRepository.ListEarnedBadgeIDs rows.Err: %w", err)
	}
	return earned, nil
}

// InsertAward relies on the unique (account_id, badge_id) key: a concurrent
// duplicate insert affects zero rows and reports inserted == false, which the
// rule engine treats as "not newly earned".
func (r *pgBadgeRepository) InsertAward(ctx context.Context, award model.AwardRecord) (bool, error) {
	query := `INSERT INTO account_badges (account_id, badge_id, awarded_at, progress_value)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (account_id, badge_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, award.AccountID, award.BadgeID, award.AwardedAt, award.ProgressValue)
	if err != nil {
		return false, fmt.Errorf("pgBadgeRepository.InsertAward: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pgBadgeRepository.InsertAward rows affected: %w", err)
	}
	return affected == 1, nil
}

func (r *pgBadgeRepository) IncrementAwardedCount(ctx context.Context, badgeID string) error {
	query := `UPDATE badges SET awarded_count = awarded_count + 1, updated_at = CURRENT_TIMESTAMP WHERE badge_id = $1`
	if _, err := r.db.ExecContext(ctx, query, badgeID); err != nil {
		return fmt.Errorf("pgBadgeRepository.IncrementAwardedCount: %w", err)
	}
	return nil
}
