package places

import (
	"context"
	"database/sql"
	"errors"

	"place-review-platform/internal/users"

	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

const placeColumns = `id, googleplace_id, name, address, created_at`

func scanPlace(row interface{ Scan(dest ...any) error }) (Place, error) {
	var p Place
	err := row.Scan(&p.ID, &p.GooglePlaceID, &p.Name, &p.Address, &p.CreatedAt)
	return p, err
}

func (r *PostgresRepo) CreatePlace(ctx context.Context, p Place) (Place, error) {
	const q = `
INSERT INTO places (googleplace_id, name, address)
VALUES ($1, $2, $3)
RETURNING ` + placeColumns
	created, err := scanPlace(r.db.QueryRowContext(ctx, q, p.GooglePlaceID, p.Name, p.Address))
	if err != nil {
		if isUniqueViolation(err) {
			return Place{}, ErrConflict
		}
		return Place{}, err
	}
	return created, nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int) (Place, error) {
	const q = `SELECT ` + placeColumns + ` FROM places WHERE id = $1`
	p, err := scanPlace(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Place{}, ErrNotFound
		}
		return Place{}, err
	}
	return p, nil
}

func (r *PostgresRepo) FindByGooglePlaceID(ctx context.Context, googlePlaceID string) (Place, error) {
	const q = `SELECT ` + placeColumns + ` FROM places WHERE googleplace_id = $1`
	p, err := scanPlace(r.db.QueryRowContext(ctx, q, googlePlaceID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Place{}, ErrNotFound
		}
		return Place{}, err
	}
	return p, nil
}

func (r *PostgresRepo) AllPlaces(ctx context.Context) ([]Place, error) {
	const q = `SELECT ` + placeColumns + ` FROM places ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) DeletePlace(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM places WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) AddCategory(ctx context.Context, placeID int, category string) (Category, error) {
	const q = `
INSERT INTO place_categories (place_id, category)
VALUES ($1, $2)
RETURNING id, category, place_id`
	var cat Category
	if err := r.db.QueryRowContext(ctx, q, placeID, category).Scan(&cat.ID, &cat.Category, &cat.PlaceID); err != nil {
		if isUniqueViolation(err) {
			return Category{}, ErrConflict
		}
		return Category{}, err
	}
	return cat, nil
}

const newsColumns = `id, news_text, approved, place_id, user_id`

func scanNews(row interface{ Scan(dest ...any) error }) (News, error) {
	var n News
	err := row.Scan(&n.ID, &n.Text, &n.Approved, &n.PlaceID, &n.UserID)
	return n, err
}

func (r *PostgresRepo) CreateNews(ctx context.Context, n News) (News, error) {
	const q = `
INSERT INTO news (news_text, place_id, user_id)
VALUES ($1, $2, $3)
RETURNING ` + newsColumns
	return scanNews(r.db.QueryRowContext(ctx, q, n.Text, n.PlaceID, n.UserID))
}

func (r *PostgresRepo) FindNewsByID(ctx context.Context, id int) (News, error) {
	const q = `SELECT ` + newsColumns + ` FROM news WHERE id = $1`
	n, err := scanNews(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return News{}, ErrNotFound
		}
		return News{}, err
	}
	return n, nil
}

func (r *PostgresRepo) UpdateNewsText(ctx context.Context, id int, text string) (News, error) {
	const q = `UPDATE news SET news_text = $2 WHERE id = $1 RETURNING ` + newsColumns
	n, err := scanNews(r.db.QueryRowContext(ctx, q, id, text))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return News{}, ErrNotFound
		}
		return News{}, err
	}
	return n, nil
}

func (r *PostgresRepo) ApproveNews(ctx context.Context, id int) (News, error) {
	const q = `UPDATE news SET approved = TRUE WHERE id = $1 RETURNING ` + newsColumns
	n, err := scanNews(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return News{}, ErrNotFound
		}
		return News{}, err
	}
	return n, nil
}

func (r *PostgresRepo) AllNews(ctx context.Context) ([]News, error) {
	return r.queryNews(ctx, `SELECT `+newsColumns+` FROM news ORDER BY id`)
}

func (r *PostgresRepo) ApprovedNewsByPlace(ctx context.Context, placeID int) ([]News, error) {
	const q = `SELECT ` + newsColumns + ` FROM news WHERE place_id = $1 AND approved ORDER BY id`
	return r.queryNews(ctx, q, placeID)
}

func (r *PostgresRepo) queryNews(ctx context.Context, q string, args ...any) ([]News, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// PlaceIDByGoogleID resolves a google place id to the internal id.
func (r *PostgresRepo) PlaceIDByGoogleID(ctx context.Context, googlePlaceID string) (int, bool, error) {
	const q = `SELECT id FROM places WHERE googleplace_id = $1`
	var id int
	if err := r.db.QueryRowContext(ctx, q, googlePlaceID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return id, true, nil
}

// PlacesByCategories serves interest-based recommendations.
func (r *PostgresRepo) PlacesByCategories(ctx context.Context, categories []string) ([]users.PlaceRef, error) {
	const q = `
SELECT DISTINCT p.id, p.googleplace_id, p.name, p.address
FROM places p
JOIN place_categories c ON c.place_id = p.id
WHERE c.category = ANY($1)
ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q, categories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []users.PlaceRef
	for rows.Next() {
		var ref users.PlaceRef
		if err := rows.Scan(&ref.ID, &ref.GooglePlaceID, &ref.Name, &ref.Address); err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

// PlacesWithCommenterAges serves age-based recommendations: each place that
// has comments from other users with a known age, paired with those ages.
func (r *PostgresRepo) PlacesWithCommenterAges(ctx context.Context, excludeUserID int) ([]users.PlaceAges, error) {
	const q = `
SELECT p.id, p.googleplace_id, p.name, p.address, u.age
FROM places p
JOIN comments c ON c.place_id = p.id
JOIN users u ON u.id = c.user_id
WHERE c.user_id <> $1 AND u.age IS NOT NULL
ORDER BY p.id`
	rows, err := r.db.QueryContext(ctx, q, excludeUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []users.PlaceAges
	byID := make(map[int]int)
	for rows.Next() {
		var ref users.PlaceRef
		var age int
		if err := rows.Scan(&ref.ID, &ref.GooglePlaceID, &ref.Name, &ref.Address, &age); err != nil {
			return nil, err
		}
		idx, ok := byID[ref.ID]
		if !ok {
			idx = len(out)
			byID[ref.ID] = idx
			out = append(out, users.PlaceAges{Place: ref})
		}
		out[idx].Ages = append(out[idx].Ages, age)
	}
	return out, rows.Err()
}
