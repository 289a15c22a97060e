package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func TestMain(m *testing.M) {
	entity.SetPasswordCost(bcrypt.MinCost)
	os.Exit(m.Run())
}

type fixture struct {
	svc      *Service
	repo     *memory.UserRepository
	images   *MockImageStore
	notifier *MockActivationNotifier
	indexer  *MockUserIndexer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &fixture{
		repo:     memory.NewUserRepository(),
		images:   NewMockImageStore(ctrl),
		notifier: NewMockActivationNotifier(ctrl),
		indexer:  NewMockUserIndexer(ctrl),
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	jwt := helpers.NewJWTManager("session", "activation", time.Hour, 24*time.Hour)
	f.svc = NewService(f.repo, jwt, f.images, f.notifier, f.indexer, logger, func(tok string) string {
		return "http://localhost:8080/user/activate/" + tok
	})
	return f
}

func johnParams() entity.NewUserParams {
	return entity.NewUserParams{
		Username: "CyberGamer92",
		Name:     "John",
		Lastname: "Doe",
		Gender:   "male",
		Email:    "user1@example.com",
		Password: "password1",
	}
}

// register creates john and returns his id and activation token.
func (f *fixture) register(t *testing.T) *CreateUserResult {
	t.Helper()
	f.notifier.EXPECT().SendActivation(gomock.Any(), gomock.Any()).Return(nil)
	f.indexer.EXPECT().Index(gomock.Any(), gomock.Any()).Return(nil)
	res, err := f.svc.Register(context.Background(), RegisterInput{User: johnParams()})
	require.NoError(t, err)
	return res
}

func TestService_CreateUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateUser(ctx, johnParams())
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserID)
	assert.NotEmpty(t, res.ActivationToken)

	u, err := f.svc.GetUserByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.True(t, u.HasPassword("password1"))
	assert.NotEqual(t, "password1", u.Password().Hash())
	assert.False(t, u.IsActivated())
}

func TestService_CreateUser_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateUser(ctx, johnParams())
	require.NoError(t, err)

	dupName := johnParams()
	dupName.Email = "other@example.com"
	_, err = f.svc.CreateUser(ctx, dupName)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	dupEmail := johnParams()
	dupEmail.Username = "someoneelse"
	_, err = f.svc.CreateUser(ctx, dupEmail)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	bad := johnParams()
	bad.Username = "fresh"
	bad.Email = "not-an-email"
	_, err = f.svc.CreateUser(ctx, bad)
	assert.ErrorIs(t, err, entity.ErrInvalidEmail)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestService_Register_SendsActivationLink(t *testing.T) {
	f := newFixture(t)

	var sent ActivationMessage
	f.notifier.EXPECT().SendActivation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, msg ActivationMessage) error {
			sent = msg
			return nil
		})
	f.indexer.EXPECT().Index(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Register(context.Background(), RegisterInput{User: johnParams()})
	require.NoError(t, err)

	assert.Equal(t, "user1@example.com", sent.Email)
	assert.Equal(t, "CyberGamer92", sent.Username)
	assert.Equal(t, "http://localhost:8080/user/activate/"+res.ActivationToken, sent.Link)

	u, err := f.svc.GetUserByToken(context.Background(), res.ActivationToken)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, u.ID())
}

func TestService_Register_DeliveryFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().SendActivation(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))
	f.indexer.EXPECT().Index(gomock.Any(), gomock.Any()).Return(errors.New("es down"))

	res, err := f.svc.Register(context.Background(), RegisterInput{User: johnParams()})
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserID)
}

func TestService_Register_WithImage(t *testing.T) {
	f := newFixture(t)
	img := UploadedImage{Filename: "me.png", ContentType: "image/png", Body: bytes.NewReader([]byte("png"))}

	f.images.EXPECT().Save(gomock.Any(), img).Return("/uploads/abc.jpg", nil)
	f.notifier.EXPECT().SendActivation(gomock.Any(), gomock.Any()).Return(nil)
	f.indexer.EXPECT().Index(gomock.Any(), gomock.Any()).Return(nil)

	res, err := f.svc.Register(context.Background(), RegisterInput{User: johnParams(), Image: &img})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.jpg", res.User.ProfileImage())
}

func TestService_Register_RemovesImageWhenCreateFails(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateUser(context.Background(), johnParams())
	require.NoError(t, err)

	img := UploadedImage{Filename: "me.jpg", Body: bytes.NewReader(nil)}
	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("/uploads/orphan.jpg", nil)
	f.images.EXPECT().Remove(gomock.Any(), "/uploads/orphan.jpg").Return(nil)

	_, err = f.svc.Register(context.Background(), RegisterInput{User: johnParams(), Image: &img})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestService_Register_RollsBackWhenVerificationFails(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	repoMock := repository.NewMockUserRepository(ctrl)
	f.svc.Repo = repoMock

	const id = "8b1f2c3d-0000-4000-8000-000000000001"
	boom := errors.New("connection reset")
	img := UploadedImage{Filename: "me.jpg", Body: bytes.NewReader(nil)}

	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("/uploads/orphan.jpg", nil)
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, u *entity.User) error {
		u.AssignIdentity(id, time.Now())
		return nil
	})
	repoMock.EXPECT().CreateEmailVerification(gomock.Any(), id, gomock.Any()).Return(boom)
	repoMock.EXPECT().Delete(gomock.Any(), id).Return(nil)
	f.images.EXPECT().Remove(gomock.Any(), "/uploads/orphan.jpg").Return(nil)

	res, err := f.svc.Register(context.Background(), RegisterInput{User: johnParams(), Image: &img})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, boom)
}

func TestService_Register_VerificationFailureFreesUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, err := f.svc.CreateUser(ctx, entity.NewUserParams{Username: "TechGirl", Email: "user2@example.com", Password: "password2"})
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	repoMock := repository.NewMockUserRepository(ctrl)
	f.svc.Repo = repoMock
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(f.repo.Create)
	repoMock.EXPECT().CreateEmailVerification(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("boom"))
	repoMock.EXPECT().Delete(gomock.Any(), gomock.Any()).DoAndReturn(f.repo.Delete)

	_, err = f.svc.Register(ctx, RegisterInput{User: johnParams()})
	require.Error(t, err)

	f.svc.Repo = f.repo
	_, err = f.repo.GetByEmail(ctx, "user1@example.com")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = f.repo.GetByID(ctx, other.UserID)
	assert.NoError(t, err)

	f.register(t)
}

func TestService_Register_ImageRejected(t *testing.T) {
	f := newFixture(t)
	img := UploadedImage{Filename: "doc.pdf", Body: bytes.NewReader(nil)}
	rejected := apperror.ValidationFailed("profile_image", "bad format")
	f.images.EXPECT().Save(gomock.Any(), gomock.Any()).Return("", rejected)

	_, err := f.svc.Register(context.Background(), RegisterInput{User: johnParams(), Image: &img})
	assert.ErrorIs(t, err, rejected)

	exists, err := f.svc.GetUserByEmail(context.Background(), "user1@example.com")
	assert.Nil(t, exists)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Register_ImageWithoutStore(t *testing.T) {
	f := newFixture(t)
	f.svc.Images = nil
	img := UploadedImage{Filename: "me.jpg", Body: bytes.NewReader(nil)}

	_, err := f.svc.Register(context.Background(), RegisterInput{User: johnParams(), Image: &img})
	assert.ErrorIs(t, err, ErrImageUploadDisabled)
}

func TestService_Login(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	out, err := f.svc.Login(ctx, "user1@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, res.UserID, out.UserID)

	claims, err := f.svc.JWT.ParseSessionToken(out.Token)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, claims.UserID)
	assert.Equal(t, "user1@example.com", claims.Email)

	_, err = f.svc.Login(ctx, "user1@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_ActivateAccount(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	f.indexer.EXPECT().Index(gomock.Any(), gomock.Any()).Return(nil)
	u, err := f.svc.ActivateAccount(ctx, res.ActivationToken)
	require.NoError(t, err)
	assert.True(t, u.IsActivated())

	stored, err := f.svc.GetUserByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.True(t, stored.IsActivated())

	_, err = f.svc.ActivateAccount(ctx, res.ActivationToken)
	assert.ErrorIs(t, err, ErrActivationTokenUsed)
}

func TestService_ActivateAccount_InvalidTokens(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	_, err := f.svc.ActivateAccount(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidActivationToken)

	// signed but never stored
	unknown, _, err := f.svc.JWT.GenerateActivationToken("user1@example.com")
	require.NoError(t, err)
	_, err = f.svc.ActivateAccount(ctx, unknown)
	assert.ErrorIs(t, err, ErrInvalidActivationToken)

	// stored for a different address
	other, _, err := f.svc.JWT.GenerateActivationToken("someone@example.com")
	require.NoError(t, err)
	require.NoError(t, f.svc.CreateEmailVerification(ctx, res.UserID, other))
	_, err = f.svc.ActivateAccount(ctx, other)
	assert.ErrorIs(t, err, ErrInvalidActivationToken)

	u, err := f.svc.GetUserByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.False(t, u.IsActivated())
}

func TestService_ActivateUser(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	require.NoError(t, f.svc.ActivateUser(ctx, res.UserID))
	assert.ErrorIs(t, f.svc.ActivateUser(ctx, res.UserID), repository.ErrAlreadyActivated)
	assert.ErrorIs(t, f.svc.ActivateUser(ctx, "missing"), ErrUserNotFound)
}

func TestService_Lookups(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	u, err := f.svc.GetUserByUsername(ctx, "CyberGamer92")
	require.NoError(t, err)
	assert.Equal(t, res.UserID, u.ID())

	u, err = f.svc.GetUserByEmail(ctx, "user1@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, res.UserID, u.ID())

	_, err = f.svc.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.svc.GetUserByUsername(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.svc.GetUserByToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_UserExists(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	ok, err := f.svc.UserExists(ctx, res.UserID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.svc.UserExists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_UserExists_PropagatesInfraErrors(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)
	repoMock := repository.NewMockUserRepository(ctrl)
	f.svc.Repo = repoMock

	boom := errors.New("connection refused")
	repoMock.EXPECT().GetByID(gomock.Any(), "some-id").Return(nil, boom)

	ok, err := f.svc.UserExists(context.Background(), "some-id")
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestService_UpdateUser(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	f.indexer.EXPECT().Index(gomock.Any(), gomock.Any()).Return(nil)
	u, err := f.svc.UpdateUser(ctx, res.UserID, entity.UserPatch{
		Name: entity.Some(""),
		Bio:  entity.Some("Retro games only."),
	})
	require.NoError(t, err)
	assert.Equal(t, "", u.Name())
	assert.Equal(t, "Retro games only.", u.Bio())

	stored, err := f.svc.GetUserByID(ctx, res.UserID)
	require.NoError(t, err)
	assert.Equal(t, "", stored.Name())
	assert.Equal(t, "Doe", stored.Lastname())
	assert.Equal(t, "Retro games only.", stored.Bio())
}

func TestService_UpdateUser_PasswordIsRehashed(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	f.indexer.EXPECT().Index(gomock.Any(), gomock.Any()).Return(nil)
	_, err := f.svc.UpdateUser(ctx, res.UserID, entity.UserPatch{Password: entity.Some("brand-new-pass")})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "user1@example.com", "brand-new-pass")
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, "user1@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_UpdateUser_Errors(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	_, err := f.svc.UpdateUser(ctx, "missing", entity.UserPatch{})
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.svc.UpdateUser(ctx, "missing", entity.UserPatch{Bio: entity.Some("x")})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.UpdateUser(ctx, res.UserID, entity.UserPatch{Email: entity.Some("nope")})
	assert.ErrorIs(t, err, entity.ErrInvalidEmail)

	_, err = f.svc.CreateUser(ctx, entity.NewUserParams{Username: "TechGirl", Email: "user2@example.com", Password: "password2"})
	require.NoError(t, err)
	_, err = f.svc.UpdateUser(ctx, res.UserID, entity.UserPatch{Username: entity.Some("TechGirl")})
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestService_UpdateUserAs(t *testing.T) {
	f := newFixture(t)
	res := f.register(t)
	ctx := context.Background()

	_, err := f.svc.UpdateUserAs(ctx, "someone-else", res.UserID, entity.UserPatch{Bio: entity.Some("hacked")})
	assert.ErrorIs(t, err, ErrUpdateForbidden)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.UpdateUserAs(ctx, "", res.UserID, entity.UserPatch{})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	u, err := f.svc.UpdateUserAs(ctx, res.UserID, res.UserID, entity.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, "", u.Bio())
}

func TestService_SearchUsers(t *testing.T) {
	f := newFixture(t)
	hits := []UserDocument{{ID: "1", Username: "CyberGamer92"}}
	f.indexer.EXPECT().Search(gomock.Any(), "gamer", 10).Return(hits, nil)

	got, err := f.svc.SearchUsers(context.Background(), "gamer", 0)
	require.NoError(t, err)
	assert.Equal(t, hits, got)

	f.svc.Indexer = nil
	got, err = f.svc.SearchUsers(context.Background(), "gamer", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
