package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/response"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

type UserHandler struct {
	Svc           *userapp.Service
	Logger        *logrus.Logger
	Cookies       *helpers.Manager
	RedirectURL   string
	MaxImageBytes int64
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger, cookies *helpers.Manager, redirectURL string, maxImageBytes int64) *UserHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies, RedirectURL: redirectURL, MaxImageBytes: maxImageBytes}
}

type registerRequest struct {
	Username string `json:"username" form:"username" binding:"required,username"`
	Name     string `json:"name" form:"name" binding:"omitempty,min=2,max=30"`
	Lastname string `json:"lastname" form:"lastname" binding:"omitempty,min=2,max=30"`
	Address  string `json:"address" form:"address" binding:"max=100"`
	Gender   string `json:"gender" form:"gender" binding:"max=20"`
	Email    string `json:"email" form:"email" binding:"required,email,max=100"`
	Password string `json:"password" form:"password" binding:"required,pwd"`
	Bio      string `json:"bio" form:"bio" binding:"max=255"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=100"`
	Password string `json:"password" binding:"required,pwd"`
}

type userResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Address      string    `json:"address"`
	Gender       string    `json:"gender"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profile_image"`
	Activated    bool      `json:"is_activated"`
	CreatedAt    time.Time `json:"created_at"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{
		ID:           u.ID(),
		Username:     u.Username(),
		Name:         u.Name(),
		Lastname:     u.Lastname(),
		Address:      u.Address(),
		Gender:       u.Gender(),
		Email:        u.Email().String(),
		Bio:          u.Bio(),
		ProfileImage: u.ProfileImage(),
		Activated:    u.IsActivated(),
		CreatedAt:    u.CreatedAt(),
	}
}

// Register POST /user/register (JSON or multipart/form-data with profile_image)
func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := userapp.RegisterInput{User: entity.NewUserParams{
		Username: req.Username,
		Name:     req.Name,
		Lastname: req.Lastname,
		Address:  req.Address,
		Gender:   req.Gender,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
	}}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("profile_image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"profile_image": "could not read upload"})
			return
		default:
			if h.MaxImageBytes > 0 && fh.Size > h.MaxImageBytes {
				response.Error[any](c, http.StatusBadRequest, "image is too large", map[string]string{"profile_image": "image is too large"})
				return
			}
			f, err := fh.Open()
			if err != nil {
				h.fail(c, err)
				return
			}
			defer f.Close()
			in.Image = &userapp.UploadedImage{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        f,
			}
		}
	}

	res, err := h.Svc.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"userId": res.UserID}, "User created successfully. Check your email to activate the account.", nil)
}

// Login POST /user/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	if h.Cookies != nil {
		h.Cookies.SetSession(c, res.Token, res.ExpiresAt)
	}
	response.Success(c, http.StatusOK, gin.H{"token": res.Token}, "login successful", map[string]any{"expires_at": res.ExpiresAt})
}

// GetUser GET /user/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user", nil)
}

// Activate GET /user/activate/:token
func (h *UserHandler) Activate(c *gin.Context) {
	if _, err := h.Svc.ActivateAccount(c.Request.Context(), c.Param("token")); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.RedirectURL)
}

// Update PUT /user/:id (auth required, own account only)
func (h *UserHandler) Update(c *gin.Context) {
	actorID, id := c.GetString(middleware.CtxUserIDKey), c.Param("id")
	if actorID == "" || actorID != id {
		h.fail(c, userapp.ErrUpdateForbidden)
		return
	}

	var patch entity.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if details := validatePatch(patch); len(details) > 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", details)
		return
	}

	u, err := h.Svc.UpdateUserAs(c.Request.Context(), actorID, id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "User updated successfully", nil)
}

// Search GET /users/search?q=&size= (auth required)
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	docs, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs, "search results", map[string]any{"count": len(docs)})
}

var patchRules = []struct {
	field string
	get   func(entity.UserPatch) entity.Optional[string]
	tag   string
}{
	{entity.FieldUsername, func(p entity.UserPatch) entity.Optional[string] { return p.Username }, "required,username"},
	{entity.FieldName, func(p entity.UserPatch) entity.Optional[string] { return p.Name }, "omitempty,min=2,max=30"},
	{entity.FieldLastname, func(p entity.UserPatch) entity.Optional[string] { return p.Lastname }, "omitempty,min=2,max=30"},
	{entity.FieldAddress, func(p entity.UserPatch) entity.Optional[string] { return p.Address }, "max=100"},
	{entity.FieldGender, func(p entity.UserPatch) entity.Optional[string] { return p.Gender }, "max=20"},
	{entity.FieldEmail, func(p entity.UserPatch) entity.Optional[string] { return p.Email }, "required,email,max=100"},
	{entity.FieldPassword, func(p entity.UserPatch) entity.Optional[string] { return p.Password }, "required,pwd"},
	{entity.FieldBio, func(p entity.UserPatch) entity.Optional[string] { return p.Bio }, "max=255"},
	{entity.FieldProfileImage, func(p entity.UserPatch) entity.Optional[string] { return p.ProfileImage }, "max=255"},
}

// validatePatch checks only the fields present in the patch.
func validatePatch(p entity.UserPatch) map[string]string {
	details := map[string]string{}
	for _, r := range patchRules {
		if v, ok := r.get(p).Get(); ok {
			validation.Field(details, r.field, v, r.tag)
		}
	}
	return details
}
