package repository

import (
	"context"
	"database/sql"
	"errors"

	"talent-catalog/internal/database"
	"talent-catalog/internal/search"

	"github.com/jackc/pgx/v5"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type UserRepository interface {
	FindSearchUser(ctx context.Context, id int64) (search.User, error)
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// FindSearchUser loads the user together with the source countries that
// restrict what they may search.
func (r *PostgresUserRepository) FindSearchUser(ctx context.Context, id int64) (search.User, error) {
	u := search.User{ID: id}
	var partnerID sql.NullInt64
	row := r.db.QueryRow(ctx, `SELECT partner_id FROM users WHERE id = $1`, id)
	if err := row.Scan(&partnerID); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return search.User{}, ErrUserNotFound
		}
		return search.User{}, err
	}
	if partnerID.Valid {
		u.PartnerID = partnerID.Int64
	}

	rows, err := r.db.Query(ctx,
		`SELECT country_id FROM user_source_country WHERE user_id = $1 ORDER BY country_id ASC`,
		id,
	)
	if err != nil {
		return search.User{}, err
	}
	defer rows.Close()

	u.SourceCountryIDs = make([]int64, 0)
	for rows.Next() {
		var c int64
		if err := rows.Scan(&c); err != nil {
			return search.User{}, err
		}
		u.SourceCountryIDs = append(u.SourceCountryIDs, c)
	}
	if err := rows.Err(); err != nil {
		return search.User{}, err
	}
	return u, nil
}
