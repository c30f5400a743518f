package comments

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

const commentColumns = `id, comment_text, rating, user_id, place_id, created_at`

func scanComment(row interface{ Scan(dest ...any) error }) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.Text, &c.Rating, &c.UserID, &c.PlaceID, &c.CreatedAt)
	return c, err
}

func (r *PostgresRepo) Create(ctx context.Context, c Comment) (Comment, error) {
	const q = `
INSERT INTO comments (comment_text, rating, user_id, place_id)
VALUES ($1, $2, $3, $4)
RETURNING ` + commentColumns
	return scanComment(r.db.QueryRowContext(ctx, q, c.Text, c.Rating, c.UserID, c.PlaceID))
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int) (Comment, error) {
	const q = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	c, err := scanComment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Comment{}, ErrNotFound
		}
		return Comment{}, err
	}
	return c, nil
}

func (r *PostgresRepo) FindAll(ctx context.Context) ([]Comment, error) {
	return r.query(ctx, `SELECT `+commentColumns+` FROM comments ORDER BY id`)
}

func (r *PostgresRepo) FindAllByUser(ctx context.Context, userID int) ([]Comment, error) {
	return r.query(ctx, `SELECT `+commentColumns+` FROM comments WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *PostgresRepo) FindAllByPlace(ctx context.Context, placeID int) ([]Comment, error) {
	return r.query(ctx, `SELECT `+commentColumns+` FROM comments WHERE place_id = $1 ORDER BY id`, placeID)
}

func (r *PostgresRepo) FindAllByPlaceWithAuthor(ctx context.Context, placeID int) ([]WithAuthor, error) {
	const q = `
SELECT c.id, c.comment_text, c.rating, c.user_id, c.place_id, c.created_at, u.user_name
FROM comments c
JOIN users u ON u.id = c.user_id
WHERE c.place_id = $1
ORDER BY c.id`
	rows, err := r.db.QueryContext(ctx, q, placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []WithAuthor
	for rows.Next() {
		var wa WithAuthor
		if err := rows.Scan(&wa.ID, &wa.Text, &wa.Rating, &wa.UserID, &wa.PlaceID, &wa.CreatedAt, &wa.UserName); err != nil {
			return nil, err
		}
		out = append(out, wa)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id int, text string, rating int) (Comment, error) {
	const q = `
UPDATE comments SET comment_text = $2, rating = $3
WHERE id = $1
RETURNING ` + commentColumns
	c, err := scanComment(r.db.QueryRowContext(ctx, q, id, text, rating))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Comment{}, ErrNotFound
		}
		return Comment{}, err
	}
	return c, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
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

func (r *PostgresRepo) query(ctx context.Context, q string, args ...any) ([]Comment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
