package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/VladPetriv/flastel/pkg/bot"
	"github.com/VladPetriv/flastel/pkg/database"
)

type offsetStore struct {
	*database.PostgreSQL
	botID int64
}

var _ bot.OffsetStore = (*offsetStore)(nil)

// NewOffset returns new instance of polling offset store for the bot.
func NewOffset(db *database.PostgreSQL, botID int64) *offsetStore {
	return &offsetStore{
		PostgreSQL: db,
		botID:      botID,
	}
}

// GetOffset returns the saved offset, zero when the bot has never saved one.
func (o *offsetStore) GetOffset(ctx context.Context) (int, error) {
	query, args, err := sq.
		StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("update_offset").
		From("polling_offsets").
		Where(sq.Eq{"bot_id": o.botID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build get offset query: %w", err)
	}

	var offset int
	err = o.DB.GetContext(ctx, &offset, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	return offset, nil
}

func (o *offsetStore) SaveOffset(ctx context.Context, offset int) error {
	query, args, err := sq.
		StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Insert("polling_offsets").
		Columns("bot_id", "update_offset").
		Values(o.botID, offset).
		Suffix("ON CONFLICT (bot_id) DO UPDATE SET update_offset = EXCLUDED.update_offset, updated_at = NOW()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save offset query: %w", err)
	}

	_, err = o.DB.ExecContext(ctx, query, args...)
	return err
}

// DeleteOffset forgets the saved offset of the bot.
func (o *offsetStore) DeleteOffset(ctx context.Context) error {
	query, args, err := sq.
		StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Delete("polling_offsets").
		Where(sq.Eq{"bot_id": o.botID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete offset query: %w", err)
	}

	_, err = o.DB.ExecContext(ctx, query, args...)
	return err
}
