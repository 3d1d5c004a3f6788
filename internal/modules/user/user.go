package user

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LeeBhin/boasting/internal/middleware"
	"github.com/LeeBhin/boasting/internal/models"
	jwtpkg "github.com/LeeBhin/boasting/internal/pkg/jwt"
	"github.com/LeeBhin/boasting/internal/pkg/response"
)

const tokenTTL = 30 * 24 * time.Hour

var (
	errUsernameTaken = errors.New("이미 사용 중인 아이디입니다.")
	errWrongLogin    = errors.New("아이디 또는 비밀번호가 올바르지 않습니다.")
)

type RegisterDTO struct {
	Username    string `json:"username"     binding:"required,min=3"`
	Password    string `json:"password"     binding:"required,min=6"`
	DisplayName string `json:"display_name"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserDTO struct {
	DisplayName *string `json:"display_name"`
	Avatar      *string `json:"avatar"`
}

type userResponse struct {
	ID          string      `json:"id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Avatar      string      `json:"avatar"`
	Bookmarks   []string    `json:"bookmarks"`
	Created     interface{} `json:"created"`
}

func toResponse(u *models.UserModel) *userResponse {
	bookmarks := []string(u.Bookmarks)
	if bookmarks == nil {
		bookmarks = []string{}
	}
	return &userResponse{
		ID: u.ID, Username: u.Username, DisplayName: u.DisplayName,
		Avatar: u.Avatar, Bookmarks: bookmarks, Created: u.CreatedAt,
	}
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// DisplayNameOf resolves a user's display name for list/detail joins.
// Missing users and blank names fall back so a deleted author never breaks
// the read path.
func (s *Service) DisplayNameOf(id string) string {
	u, err := s.GetByID(id)
	if err != nil || u == nil {
		return id
	}
	if u.DisplayName == "" {
		return u.Username
	}
	return u.DisplayName
}

func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).
		Where("username = ?", dto.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	name := dto.DisplayName
	if name == "" {
		name = dto.Username
	}
	u := models.UserModel{
		Username:    dto.Username,
		Password:    string(hash),
		DisplayName: name,
		Bookmarks:   models.StringArray{},
	}
	return &u, s.db.Create(&u).Error
}

func (s *Service) Login(username, password, ip string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			time.Sleep(3 * time.Second)
			return "", nil, errWrongLogin
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		time.Sleep(3 * time.Second)
		return "", nil, errWrongLogin
	}

	token, err := jwtpkg.Sign(u.ID, tokenTTL)
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	_ = s.db.Model(&u).Updates(map[string]interface{}{
		"last_login_time": &now,
		"last_login_ip":   ip,
	}).Error

	return token, &u, nil
}

func (s *Service) Update(id string, dto *UpdateUserDTO) (*models.UserModel, error) {
	u, err := s.GetByID(id)
	if err != nil || u == nil {
		return u, err
	}
	updates := map[string]interface{}{}
	if dto.DisplayName != nil {
		updates["display_name"] = *dto.DisplayName
	}
	if dto.Avatar != nil {
		updates["avatar"] = *dto.Avatar
	}
	if len(updates) == 0 {
		return u, nil
	}
	return u, s.db.Model(u).Updates(updates).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/user")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.GET("", authMW, h.me)
	g.PATCH("", authMW, h.update)
}

func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Register(&dto)
	if err != nil {
		if errors.Is(err, errUsernameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, toResponse(u))
}

func (h *Handler) login(c *gin.Context) {
	var dto LoginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, u, err := h.svc.Login(dto.Username, dto.Password, c.ClientIP())
	if err != nil {
		if errors.Is(err, errWrongLogin) {
			response.Unauthorized(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"token": token, "user": toResponse(u)})
}

func (h *Handler) me(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(u))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateUserDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.svc.Update(middleware.CurrentUserID(c), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toResponse(u))
}
