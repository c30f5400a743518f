package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepo backs the user domain with the tables users, user_interests,
// user_friends and friend_requests. Friendships are stored as one row per
// direction so list queries never need a symmetric OR.
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

const userColumns = `id, user_name, email, password_hash, age, role, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.UserName, &u.Email, &u.PasswordHash, &u.Age, &u.Role, &u.CreatedAt)
	return u, err
}

func (r *PostgresRepo) Create(ctx context.Context, u User) (User, error) {
	const q = `
INSERT INTO users (user_name, email, password_hash, age, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRowContext(ctx, q, u.UserName, u.Email, u.PasswordHash, u.Age, u.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrConflict
		}
		return User{}, err
	}
	return created, nil
}

func (r *PostgresRepo) FindByID(ctx context.Context, id int) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (r *PostgresRepo) FindByEmail(ctx context.Context, email string) (User, bool, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, false, nil
		}
		return User{}, false, err
	}
	return u, true, nil
}

func (r *PostgresRepo) SearchByUserName(ctx context.Context, userName string) ([]User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE user_name = $1 ORDER BY id`
	return r.queryUsers(ctx, q, userName)
}

func (r *PostgresRepo) Update(ctx context.Context, u User) (User, error) {
	const q = `
UPDATE users SET user_name = $2, age = $3
WHERE id = $1
RETURNING ` + userColumns
	updated, err := scanUser(r.db.QueryRowContext(ctx, q, u.ID, u.UserName, u.Age))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return updated, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (r *PostgresRepo) AddInterest(ctx context.Context, userID int, interest string) error {
	const q = `INSERT INTO user_interests (user_id, interest) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, q, userID, interest); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) InterestsOf(ctx context.Context, userID int) ([]string, error) {
	const q = `SELECT interest FROM user_interests WHERE user_id = $1 ORDER BY interest`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var interest string
		if err := rows.Scan(&interest); err != nil {
			return nil, err
		}
		out = append(out, interest)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) AreFriends(ctx context.Context, a, b int) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM user_friends WHERE user_id = $1 AND friend_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, a, b).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepo) RequestExists(ctx context.Context, from, to int) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM friend_requests WHERE user_id = $1 AND friend_id = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, from, to).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepo) CreateRequest(ctx context.Context, from, to int) error {
	const q = `INSERT INTO friend_requests (user_id, friend_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, q, from, to); err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *PostgresRepo) DeleteRequest(ctx context.Context, from, to int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM friend_requests WHERE user_id = $1 AND friend_id = $2`, from, to)
	return err
}

func (r *PostgresRepo) CreateFriendship(ctx context.Context, a, b int) error {
	const q = `
INSERT INTO user_friends (user_id, friend_id)
VALUES ($1, $2), ($2, $1)
ON CONFLICT DO NOTHING`
	_, err := r.db.ExecContext(ctx, q, a, b)
	return err
}

func (r *PostgresRepo) FriendsOf(ctx context.Context, userID int) ([]User, error) {
	const q = `
SELECT u.id, u.user_name, u.email, u.password_hash, u.age, u.role, u.created_at
FROM user_friends f
JOIN users u ON u.id = f.friend_id
WHERE f.user_id = $1
ORDER BY u.id`
	return r.queryUsers(ctx, q, userID)
}

func (r *PostgresRepo) queryUsers(ctx context.Context, q string, args ...any) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
