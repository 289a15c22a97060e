package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the account domain.
// Fields are reachable only through accessors so Email and Password always
// hold validated value objects.
type User struct {
	id           string
	username     string
	name         string
	lastname     string
	address      string
	gender       string
	email        UserEmail
	password     UserPassword
	bio          string
	profileImage string
	activated    bool
	createdAt    time.Time
}

// NewUserParams carries registration input. Password is plaintext.
type NewUserParams struct {
	Username     string
	Name         string
	Lastname     string
	Address      string
	Gender       string
	Email        string
	Password     string
	Bio          string
	ProfileImage string
}

// CreateUser validates the email and hashes the password. The new user is
// not activated and has no id until the repository assigns one.
func CreateUser(p NewUserParams) (*User, error) {
	email, err := NewUserEmail(p.Email)
	if err != nil {
		return nil, err
	}
	pwd, err := PasswordFromPlain(p.Password)
	if err != nil {
		return nil, err
	}
	return &User{
		username:     strings.TrimSpace(p.Username),
		name:         p.Name,
		lastname:     p.Lastname,
		address:      p.Address,
		gender:       p.Gender,
		email:        email,
		password:     pwd,
		bio:          p.Bio,
		profileImage: p.ProfileImage,
	}, nil
}

// UserRecord is the persisted shape of a user; Password is the stored hash.
type UserRecord struct {
	ID           string
	Username     string
	Name         string
	Lastname     string
	Address      string
	Gender       string
	Email        string
	Password     string
	Bio          string
	ProfileImage string
	Activated    bool
	CreatedAt    time.Time
}

// RestoreUser rebuilds a User from storage without re-hashing.
func RestoreUser(r UserRecord) (*User, error) {
	email, err := NewUserEmail(r.Email)
	if err != nil {
		return nil, err
	}
	return &User{
		id:           r.ID,
		username:     r.Username,
		name:         r.Name,
		lastname:     r.Lastname,
		address:      r.Address,
		gender:       r.Gender,
		email:        email,
		password:     PasswordFromHash(r.Password),
		bio:          r.Bio,
		profileImage: r.ProfileImage,
		activated:    r.Activated,
		createdAt:    r.CreatedAt,
	}, nil
}

// Record returns the persisted shape of u.
func (u *User) Record() UserRecord {
	return UserRecord{
		ID:           u.id,
		Username:     u.username,
		Name:         u.name,
		Lastname:     u.lastname,
		Address:      u.address,
		Gender:       u.gender,
		Email:        u.email.String(),
		Password:     u.password.Hash(),
		Bio:          u.bio,
		ProfileImage: u.profileImage,
		Activated:    u.activated,
		CreatedAt:    u.createdAt,
	}
}

// AssignIdentity is called by repositories once the store has issued an id.
func (u *User) AssignIdentity(id string, createdAt time.Time) {
	u.id = id
	u.createdAt = createdAt
}

func (u *User) ID() string { return u.id }
func (u *User) Username() string { return u.username }
func (u *User) Name() string { return u.name }
func (u *User) Lastname() string { return u.lastname }
func (u *User) Address() string { return u.address }
func (u *User) Gender() string { return u.gender }
func (u *User) Email() UserEmail { return u.email }
func (u *User) Password() UserPassword { return u.password }
func (u *User) Bio() string { return u.bio }
func (u *User) ProfileImage() string { return u.profileImage }
func (u *User) IsActivated() bool { return u.activated }
func (u *User) CreatedAt() time.Time { return u.createdAt }

// Has* report whether the field equals the given value.
func (u *User) HasID(id string) bool { return u.id == id }
func (u *User) HasUsername(username string) bool { return u.username == username }
func (u *User) HasName(name string) bool { return u.name == name }
func (u *User) HasLastname(lastname string) bool { return u.lastname == lastname }
func (u *User) HasAddress(address string) bool { return u.address == address }
func (u *User) HasGender(gender string) bool { return u.gender == gender }
func (u *User) HasBio(bio string) bool { return u.bio == bio }
func (u *User) HasProfileImage(image string) bool { return u.profileImage == image }

// HasEmail is false for an address that does not parse.
func (u *User) HasEmail(raw string) bool {
	e, err := NewUserEmail(raw)
	if err != nil {
		return false
	}
	return u.email.Equals(e)
}

// HasPassword compares plain against the stored hash.
func (u *User) HasPassword(plain string) bool { return u.password.CompareWith(plain) }

// Activate is idempotent.
func (u *User) Activate() {
	u.activated = true
}

// Update applies every field that is set in p, including empty strings.
// Email and password are validated first; on error u is left unchanged.
func (u *User) Update(p UserPatch) error {
	email := u.email
	if v, ok := p.Email.Get(); ok {
		e, err := NewUserEmail(v)
		if err != nil {
			return err
		}
		email = e
	}
	pwd := u.password
	if v, ok := p.Password.Get(); ok {
		np, err := PasswordFromPlain(v)
		if err != nil {
			return err
		}
		pwd = np
	}

	u.email = email
	u.password = pwd
	if v, ok := p.Username.Get(); ok {
		u.username = strings.TrimSpace(v)
	}
	if v, ok := p.Name.Get(); ok {
		u.name = v
	}
	if v, ok := p.Lastname.Get(); ok {
		u.lastname = v
	}
	if v, ok := p.Address.Get(); ok {
		u.address = v
	}
	if v, ok := p.Gender.Get(); ok {
		u.gender = v
	}
	if v, ok := p.Bio.Get(); ok {
		u.bio = v
	}
	if v, ok := p.ProfileImage.Get(); ok {
		u.profileImage = v
	}
	return nil
}
