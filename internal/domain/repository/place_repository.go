package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type PlaceRepository interface {
	Create(ctx context.Context, place *model.Place) error
	FindBySlug(ctx context.Context, slug string) (*model.Place, error)
	List(ctx context.Context, category model.PlaceCategory, publishedOnly bool) ([]*model.Place, error)
	Update(ctx context.Context, place *model.Place) error
	Delete(ctx context.Context, slug string) error
}

type pgPlaceRepository struct {
	db *sql.DB
}

func NewPgPlaceRepository(db *sql.DB) PlaceRepository {
	return &pgPlaceRepository{db: db}
}

func (r *pgPlaceRepository) Create(ctx context.Context, place *model.Place) error {
	query := `INSERT INTO places (id, slug, name, category, description, address, published, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		place.ID, place.Slug, place.Name, place.Category, place.Description, place.Address, place.Published,
		place.CreatedAt, place.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique constraint violation on slug
			return common.NewConflictError(common.CodeDuplicateResource, "A place with this slug already exists")
		}
		return fmt.Errorf("pgPlaceRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPlaceRepository) FindBySlug(ctx context.Context, slug string) (*model.Place, error) {
	query := `SELECT id, slug, name, category, description, address, published, created_at, updated_at
	          FROM places WHERE slug = $1`
	place := &model.Place{}
	err := r.db.QueryRowContext(ctx, query, slug).Scan(
		&place.ID, &place.Slug, &place.Name, &place.Category, &place.Description, &place.Address, &place.Published,
		&place.CreatedAt, &place.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPlaceRepository.FindBySlug: %w", err)
	}
	return place, nil
}

func (r *pgPlaceRepository) List(ctx context.Context, category model.PlaceCategory, publishedOnly bool) ([]*model.Place, error) {
	query := `SELECT id, slug, name, category, description, address, published, created_at, updated_at
	          FROM places
	          WHERE ($1 = '' OR category = $1) AND (NOT $2 OR published)
	          ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, string(category), publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("pgPlaceRepository.List: %w", err)
	}
	defer rows.Close()

	places := []*model.Place{}
	for rows.Next() {
		place := &model.Place{}
		if err := rows.Scan(
			&place.ID, &place.Slug, &place.Name, &place.Category, &place.Description, &place.Address, &place.Published,
			&place.CreatedAt, &place.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgPlaceRepository.List: %w", err)
		}
		places = append(places, place)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPlaceRepository.List: %w", err)
	}
	return places, nil
}

func (r *pgPlaceRepository) Update(ctx context.Context, place *model.Place) error {
	query := `UPDATE places SET name = $2, category = $3, description = $4, address = $5, published = $6, updated_at = NOW()
	          WHERE slug = $1`
	result, err := r.db.ExecContext(ctx, query,
		place.Slug, place.Name, place.Category, place.Description, place.Address, place.Published,
	)
	if err != nil {
		return fmt.Errorf("pgPlaceRepository.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgPlaceRepository.Update: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPlaceRepository) Delete(ctx context.Context, slug string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE slug = $1`, slug)
	if err != nil {
		return fmt.Errorf("pgPlaceRepository.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgPlaceRepository.Delete: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
