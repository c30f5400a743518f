package photos

import (
	"context"
	"database/sql"
	"errors"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const photoColumns = `id, location, content_type, approved, user_id, place_id, created_at`

func scanPhoto(row interface{ Scan(dest ...any) error }) (Photo, error) {
	var p Photo
	err := row.Scan(&p.ID, &p.Location, &p.ContentType, &p.Approved, &p.UserID, &p.PlaceID, &p.CreatedAt)
	return p, err
}

func (r *PostgresRepo) Create(ctx context.Context, p Photo) (Photo, error) {
	const q = `
INSERT INTO photos (location, content_type, user_id, place_id)
VALUES ($1, $2, $3, $4)
RETURNING ` + photoColumns
	return scanPhoto(r.db.QueryRowContext(ctx, q, p.Location, p.ContentType, p.UserID, p.PlaceID))
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int) (Photo, error) {
	const q = `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`
	p, err := scanPhoto(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Photo{}, ErrNotFound
		}
		return Photo{}, err
	}
	return p, nil
}

const viewColumns = `p.id, p.location, p.content_type, u.user_name, pl.name`

const viewJoin = `
FROM photos p
JOIN users u ON u.id = p.user_id
JOIN places pl ON pl.id = p.place_id`

func (r *PostgresRepo) FindViewByID(ctx context.Context, id int) (View, error) {
	q := `SELECT ` + viewColumns + viewJoin + ` WHERE p.id = $1`
	var v View
	err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Location, &v.ContentType, &v.UserName, &v.PlaceName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return View{}, ErrNotFound
		}
		return View{}, err
	}
	return v, nil
}

func (r *PostgresRepo) All(ctx context.Context) ([]Photo, error) {
	const q = `SELECT ` + photoColumns + ` FROM photos ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Photo
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ApprovedByUser(ctx context.Context, userID int) ([]View, error) {
	q := `SELECT ` + viewColumns + viewJoin + ` WHERE p.user_id = $1 AND p.approved ORDER BY p.id`
	return r.queryViews(ctx, q, userID)
}

func (r *PostgresRepo) ApprovedByPlace(ctx context.Context, placeID int) ([]View, error) {
	q := `SELECT ` + viewColumns + viewJoin + ` WHERE p.place_id = $1 AND p.approved ORDER BY p.id`
	return r.queryViews(ctx, q, placeID)
}

func (r *PostgresRepo) Approve(ctx context.Context, id int) (Photo, error) {
	const q = `UPDATE photos SET approved = TRUE WHERE id = $1 RETURNING ` + photoColumns
	p, err := scanPhoto(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Photo{}, ErrNotFound
		}
		return Photo{}, err
	}
	return p, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
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

func (r *PostgresRepo) PlaceExists(ctx context.Context, placeID int) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, placeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepo) queryViews(ctx context.Context, q string, args ...any) ([]View, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []View
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.ID, &v.Location, &v.ContentType, &v.UserName, &v.PlaceName); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
