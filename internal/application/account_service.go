package application

import (
	"context"
	"errors"
	"expvar"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

var (
	metricRegistrations = expvar.NewInt("account_registrations_total")
	metricLogins        = expvar.NewInt("account_logins_total")
	metricLoginFailures = expvar.NewInt("account_login_failures_total")
	metricActivations   = expvar.NewInt("account_activations_total")
)

// Service implements the account use cases on top of a UserRepository and
// the injected capabilities. Images, Notifier and Indexer may be nil.
type Service struct {
	Repo          repo.UserRepository
	JWT           *helpers.JWTManager
	Images        ImageStore
	Notifier      ActivationNotifier
	Indexer       UserIndexer
	Logger        *logrus.Logger
	ActivationURL func(token string) string
}

func NewService(
	repo repo.UserRepository,
	jwt *helpers.JWTManager,
	images ImageStore,
	notifier ActivationNotifier,
	indexer UserIndexer,
	logger *logrus.Logger,
	activationURL func(token string) string,
) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		Repo:          repo,
		JWT:           jwt,
		Images:        images,
		Notifier:      notifier,
		Indexer:       indexer,
		Logger:        logger,
		ActivationURL: activationURL,
	}
}

// CreateUserResult is returned by CreateUser and Register.
type CreateUserResult struct {
	UserID          string
	ActivationToken string
	TokenExpiresAt  time.Time
	User            *entity.User
}

// LoginResult carries the session token issued by Login.
type LoginResult struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

// RegisterInput is the registration payload plus an optional profile image.
type RegisterInput struct {
	User  entity.NewUserParams
	Image *UploadedImage
}

// CreateUser validates, hashes and stores a new user and issues its
// activation token. Uniqueness is enforced by the store.
func (s *Service) CreateUser(ctx context.Context, in entity.NewUserParams) (*CreateUserResult, error) {
	u, err := entity.CreateUser(in)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	token, exp, err := s.JWT.GenerateActivationToken(u.Email().String())
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID()).Error("generate activation token failed")
		return nil, err
	}
	return &CreateUserResult{UserID: u.ID(), ActivationToken: token, TokenExpiresAt: exp, User: u}, nil
}

func (s *Service) CreateEmailVerification(ctx context.Context, userID, token string) error {
	return s.Repo.CreateEmailVerification(ctx, userID, token)
}

// Register stores the optional image, creates the user, records the
// activation token and sends the activation link. A failed delivery is
// logged; the account still exists and the call succeeds.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*CreateUserResult, error) {
	var imageRef string
	if in.Image != nil {
		if s.Images == nil {
			return nil, ErrImageUploadDisabled
		}
		ref, err := s.Images.Save(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		imageRef = ref
		in.User.ProfileImage = ref
	}

	res, err := s.CreateUser(ctx, in.User)
	if err != nil {
		s.removeImage(ctx, imageRef)
		return nil, err
	}

	// Without a stored token the account could never be activated, and its
	// username and email would stay taken. Undo the registration instead.
	if err := s.CreateEmailVerification(ctx, res.UserID, res.ActivationToken); err != nil {
		s.Logger.WithError(err).WithField("user_id", res.UserID).Error("store email verification failed")
		if delErr := s.Repo.Delete(context.WithoutCancel(ctx), res.UserID); delErr != nil {
			s.Logger.WithError(delErr).WithField("user_id", res.UserID).Error("roll back registration failed")
		}
		s.removeImage(ctx, imageRef)
		return nil, err
	}

	s.sendActivation(ctx, res)
	s.index(ctx, res.User)
	metricRegistrations.Add(1)
	s.Logger.WithField("user_id", res.UserID).Info("user registered")
	return res, nil
}

func (s *Service) removeImage(ctx context.Context, ref string) {
	if ref == "" || s.Images == nil {
		return
	}
	if err := s.Images.Remove(context.WithoutCancel(ctx), ref); err != nil {
		s.Logger.WithError(err).WithField("image", ref).Warn("remove orphaned image failed")
	}
}

func (s *Service) sendActivation(ctx context.Context, res *CreateUserResult) {
	if s.Notifier == nil {
		return
	}
	link := res.ActivationToken
	if s.ActivationURL != nil {
		link = s.ActivationURL(res.ActivationToken)
	}
	msg := ActivationMessage{
		Email:     res.User.Email().String(),
		Username:  res.User.Username(),
		Link:      link,
		ExpiresAt: res.TokenExpiresAt,
	}
	if err := s.Notifier.SendActivation(ctx, msg); err != nil {
		s.Logger.WithError(err).WithField("user_id", res.UserID).Error("send activation email failed")
	}
}

func (s *Service) index(ctx context.Context, u *entity.User) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, NewUserDocument(u)); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID()).Warn("index user failed")
	}
}

// Login checks the credentials and issues a session token. Unknown email and
// wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			metricLoginFailures.Add(1)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.HasPassword(password) {
		metricLoginFailures.Add(1)
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.JWT.GenerateSessionToken(u.ID(), u.Email().String())
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID()).Error("generate session token failed")
		return nil, err
	}
	metricLogins.Add(1)
	return &LoginResult{UserID: u.ID(), Token: token, ExpiresAt: exp}, nil
}

// ActivateAccount consumes an activation token: it must verify, be on
// record, belong to the user's current email and the user must not be
// active yet.
func (s *Service) ActivateAccount(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseActivationToken(token)
	if err != nil {
		return nil, ErrInvalidActivationToken
	}
	u, err := s.Repo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidActivationToken
		}
		return nil, err
	}
	claimed, err := entity.NewUserEmail(claims.Email)
	if err != nil || !claimed.Equals(u.Email()) {
		return nil, ErrInvalidActivationToken
	}
	if u.IsActivated() {
		return nil, ErrActivationTokenUsed
	}
	if err := s.ActivateUser(ctx, u.ID()); err != nil {
		if errors.Is(err, repo.ErrAlreadyActivated) {
			return nil, ErrActivationTokenUsed
		}
		return nil, err
	}
	u.Activate()
	if err := s.Repo.MarkVerificationUsed(ctx, token); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID()).Warn("mark verification used failed")
	}
	s.index(ctx, u)
	metricActivations.Add(1)
	return u, nil
}

// ActivateUser sets the activated flag. It returns repository.ErrAlreadyActivated
// when the flag was already set.
func (s *Service) ActivateUser(ctx context.Context, userID string) error {
	err := s.Repo.Activate(ctx, userID)
	if errors.Is(err, apperror.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	return s.notFoundAsUser(s.Repo.GetByID(ctx, id))
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	return s.notFoundAsUser(s.Repo.GetByEmail(ctx, email))
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.notFoundAsUser(s.Repo.GetByUsername(ctx, username))
}

func (s *Service) GetUserByToken(ctx context.Context, token string) (*entity.User, error) {
	return s.notFoundAsUser(s.Repo.GetByVerificationToken(ctx, token))
}

func (s *Service) notFoundAsUser(u *entity.User, err error) (*entity.User, error) {
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UserExists reports whether a user with id exists. Only infrastructure
// failures are returned as errors.
func (s *Service) UserExists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetUserByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

// UpdateUser applies patch to the user. Fields absent from patch are left
// untouched; supplied empty strings clear the field.
func (s *Service) UpdateUser(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return u, nil
	}
	if err := u.Update(patch); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, u, patch); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.index(ctx, u)
	s.Logger.WithField("user_id", id).WithField("fields", patch.Fields()).Info("user updated")
	return u, nil
}

// UpdateUserAs is UpdateUser restricted to the account owner.
func (s *Service) UpdateUserAs(ctx context.Context, actorID, id string, patch entity.UserPatch) (*entity.User, error) {
	if actorID == "" || actorID != id {
		return nil, ErrUpdateForbidden
	}
	return s.UpdateUser(ctx, id, patch)
}

// SearchUsers queries the profile index. Without an indexer it returns no hits.
func (s *Service) SearchUsers(ctx context.Context, query string, size int) ([]UserDocument, error) {
	if s.Indexer == nil {
		return []UserDocument{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Indexer.Search(ctx, query, size)
}
