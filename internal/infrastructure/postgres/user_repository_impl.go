package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

const userColumns = `id::text, username, name, lastname, address, gender, email, password, bio, profile_image, is_activated, created_at`

// UserRepository stores accounts in PostgreSQL. Every method runs inside
// pool.AcquireFunc so the connection is returned on all paths.
type UserRepository struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *logrus.Logger) *UserRepository {
	return &UserRepository{pool: pool, logger: logger}
}

func (r *UserRepository) logQuery(query string, err error) {
	if r.logger == nil {
		return
	}
	entry := r.logger.WithField("query", strings.Join(strings.Fields(query), " "))
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Debug("postgres query")
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	const q = `
		INSERT INTO users (username, name, lastname, address, gender, email, password, bio, profile_image, is_activated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id::text, created_at
	`
	rec := u.Record()
	return r.pool.AcquireFunc(ctx, func(conn *pgxpool.Conn) error {
		err := conn.QueryRow(ctx, q,
			rec.Username, rec.Name, rec.Lastname, rec.Address, rec.Gender,
			rec.Email, rec.Password, rec.Bio, rec.ProfileImage, rec.Activated,
		).Scan(&rec.ID, &rec.CreatedAt)
		r.logQuery(q, err)
		if err != nil {
			return translateWriteErr(err)
		}
		u.AssignIdentity(rec.ID, rec.CreatedAt)
		return nil
	})
}

func (r *UserRepository) CreateEmailVerification(ctx context.Context, userID, token string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return apperror.NotFound("user", userID)
	}
	const q = `INSERT INTO email_verification (user_id, token) VALUES ($1::uuid, $2)`
	return r.pool.AcquireFunc(ctx, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, q, userID, token)
		r.logQuery(q, err)
		if err != nil {
			return translateWriteErr(err)
		}
		return nil
	})
}

func (r *UserRepository) MarkVerificationUsed(ctx context.Context, token string) error {
	const q = `UPDATE email_verification SET used_at = COALESCE(used_at, now()) WHERE token = $1`
	return r.pool.AcquireFunc(ctx, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, q, token)
		r.logQuery(q, err)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("email verification", "token")
		}
		return nil
	})
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NotFound("user", id)
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1::uuid`, id, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	addr, err := entity.NewUserEmail(email)
	if err != nil {
		return nil, apperror.NotFound("user", email)
	}
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, addr.String(), email)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username, username)
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	const q = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = (SELECT user_id FROM email_verification WHERE token = $1)
	`
	return r.getOne(ctx, q, token, "verification token")
}

func (r *UserRepository) getOne(ctx context.Context, q string, arg any, label string) (*entity.User, error) {
	var u *entity.User
	err := r.pool.AcquireFunc(ctx, func(conn *pgxpool.Conn) error {
		var rec entity.UserRecord
		err := conn.QueryRow(ctx, q, arg).Scan(
			&rec.ID, &rec.Username, &rec.Name, &rec.Lastname, &rec.Address, &rec.Gender,
			&rec.Email, &rec.Password, &rec.Bio, &rec.ProfileImage, &rec.Activated, &rec.CreatedAt,
		)
		r.logQuery(q, err)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperror.NotFound("user", label)
			}
			return err
		}
		u, err = entity.RestoreUser(rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update writes only the columns named by p. Values come from u, which the
// caller has already validated through User.Update.
func (r *UserRepository) Update(ctx context.Context, u *entity.User, p entity.UserPatch) error {
	if _, err := uuid.Parse(u.ID()); err != nil {
		return apperror.NotFound("user", u.ID())
	}
	fields := p.Fields()
	if len(fields) == 0 {
		_, err := r.GetByID(ctx, u.ID())
		return err
	}

	rec := u.Record()
	values := map[string]any{
		entity.FieldUsername:     rec.Username,
		entity.FieldName:         rec.Name,
		entity.FieldLastname:     rec.Lastname,
		entity.FieldAddress:      rec.Address,
		entity.FieldGender:       rec.Gender,
		entity.FieldEmail:        rec.Email,
		entity.FieldPassword:     rec.Password,
		entity.FieldBio:          rec.Bio,
		entity.FieldProfileImage: rec.ProfileImage,
	}
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		sets = append(sets, fmt.Sprintf("%s = $%d", f, i+1))
		args = append(args, values[f])
	}
	args = append(args, rec.ID)
	q := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d::uuid`, strings.Join(sets, ", "), len(args))

	return r.pool.AcquireFunc(ctx, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, q, args...)
		r.logQuery(q, err)
		if err != nil {
			return translateWriteErr(err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("user", rec.ID)
		}
		return nil
	})
}

// Activate is conditional on is_activated = false so concurrent calls flip
// the flag once; the loser gets ErrAlreadyActivated.
func (r *UserRepository) Activate(ctx context.Context, userID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return apperror.NotFound("user", userID)
	}
	const q = `
		WITH target AS (SELECT id, is_activated FROM users WHERE id = $1::uuid),
		     flipped AS (
		         UPDATE users SET is_activated = true
		         WHERE id = $1::uuid AND is_activated = false
		         RETURNING id
		     )
		SELECT EXISTS (SELECT 1 FROM target), EXISTS (SELECT 1 FROM flipped)
	`
	return r.pool.AcquireFunc(ctx, func(conn *pgxpool.Conn) error {
		var found, flipped bool
		err := conn.QueryRow(ctx, q, userID).Scan(&found, &flipped)
		r.logQuery(q, err)
		if err != nil {
			return err
		}
		if !found {
			return apperror.NotFound("user", userID)
		}
		if !flipped {
			return repository.ErrAlreadyActivated
		}
		return nil
	})
}

// Delete removes the user; verification rows go with it via ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NotFound("user", id)
	}
	const q = `DELETE FROM users WHERE id = $1::uuid`
	return r.pool.AcquireFunc(ctx, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, q, id)
		r.logQuery(q, err)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperror.NotFound("user", id)
		}
		return nil
	})
}

var _ repository.UserRepository = (*UserRepository)(nil)
