package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

type verification struct {
	userID string
	usedAt *time.Time
}

// UserRepository is an in-process implementation used by tests and by
// DB_DRIVER=memory. It enforces the same uniqueness and not-found rules
// as the postgres implementation.
type UserRepository struct {
	mu            sync.RWMutex
	users         map[string]entity.UserRecord
	byUsername    map[string]string
	byEmail       map[string]string
	verifications map[string]*verification
	now           func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:         make(map[string]entity.UserRecord),
		byUsername:    make(map[string]string),
		byEmail:       make(map[string]string),
		verifications: make(map[string]*verification),
		now:           time.Now,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := u.Record()
	if _, ok := r.byUsername[rec.Username]; ok {
		return apperror.Conflict("user", entity.FieldUsername)
	}
	if _, ok := r.byEmail[rec.Email]; ok {
		return apperror.Conflict("user", entity.FieldEmail)
	}

	rec.ID = uuid.NewString()
	rec.CreatedAt = r.now().UTC()
	r.users[rec.ID] = rec
	r.byUsername[rec.Username] = rec.ID
	r.byEmail[rec.Email] = rec.ID
	u.AssignIdentity(rec.ID, rec.CreatedAt)
	return nil
}

func (r *UserRepository) CreateEmailVerification(ctx context.Context, userID, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[userID]; !ok {
		return apperror.NotFound("user", userID)
	}
	if _, ok := r.verifications[token]; ok {
		return apperror.Conflict("email verification", "token")
	}
	r.verifications[token] = &verification{userID: userID}
	return nil
}

func (r *UserRepository) MarkVerificationUsed(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.verifications[token]
	if !ok {
		return apperror.NotFound("email verification", "token")
	}
	if v.usedAt == nil {
		now := r.now().UTC()
		v.usedAt = &now
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return entity.RestoreUser(rec)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	addr, err := entity.NewUserEmail(email)
	if err != nil {
		return nil, apperror.NotFound("user", email)
	}
	r.mu.RLock()
	id, ok := r.byEmail[addr.String()]
	r.mu.RUnlock()
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.byUsername[username]
	r.mu.RUnlock()
	if !ok {
		return nil, apperror.NotFound("user", username)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) GetByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	r.mu.RLock()
	v, ok := r.verifications[token]
	r.mu.RUnlock()
	if !ok {
		return nil, apperror.NotFound("user", "verification token")
	}
	return r.GetByID(ctx, v.userID)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User, p entity.UserPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.users[u.ID()]
	if !ok {
		return apperror.NotFound("user", u.ID())
	}
	next := u.Record()
	if p.Username.IsSet() && next.Username != cur.Username {
		if _, taken := r.byUsername[next.Username]; taken {
			return apperror.Conflict("user", entity.FieldUsername)
		}
	}
	if p.Email.IsSet() && next.Email != cur.Email {
		if _, taken := r.byEmail[next.Email]; taken {
			return apperror.Conflict("user", entity.FieldEmail)
		}
	}

	for _, f := range p.Fields() {
		switch f {
		case entity.FieldUsername:
			delete(r.byUsername, cur.Username)
			cur.Username = next.Username
			r.byUsername[cur.Username] = cur.ID
		case entity.FieldEmail:
			delete(r.byEmail, cur.Email)
			cur.Email = next.Email
			r.byEmail[cur.Email] = cur.ID
		case entity.FieldName:
			cur.Name = next.Name
		case entity.FieldLastname:
			cur.Lastname = next.Lastname
		case entity.FieldAddress:
			cur.Address = next.Address
		case entity.FieldGender:
			cur.Gender = next.Gender
		case entity.FieldPassword:
			cur.Password = next.Password
		case entity.FieldBio:
			cur.Bio = next.Bio
		case entity.FieldProfileImage:
			cur.ProfileImage = next.ProfileImage
		}
	}
	r.users[cur.ID] = cur
	return nil
}

func (r *UserRepository) Activate(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[userID]
	if !ok {
		return apperror.NotFound("user", userID)
	}
	if rec.Activated {
		return repository.ErrAlreadyActivated
	}
	rec.Activated = true
	r.users[userID] = rec
	return nil
}

// Delete removes the user and its verification tokens.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	delete(r.users, id)
	delete(r.byUsername, rec.Username)
	delete(r.byEmail, rec.Email)
	for tok, v := range r.verifications {
		if v.userID == id {
			delete(r.verifications, tok)
		}
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
