package project

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LeeBhin/boasting/internal/middleware"
	"github.com/LeeBhin/boasting/internal/models"
	redispkg "github.com/LeeBhin/boasting/internal/pkg/redis"
	"github.com/LeeBhin/boasting/internal/pkg/response"
	"github.com/LeeBhin/boasting/internal/pkg/timeago"
)

const (
	maxImages         = 5
	maxDescriptionLen = 800
)

var (
	errNoImages        = errors.New("이미지를 1개 이상 올려주세요.")
	errTooManyImages   = errors.New("이미지는 최대 5개까지 올릴 수 있습니다.")
	errEmptyTitle      = errors.New("제목을 입력해주세요.")
	errDescriptionLen  = errors.New("설명은 800자 이내로 입력해주세요.")
	errProjectNotFound = errors.New("project not found")
	errNotOwner        = errors.New("not owner")
)

type CreateProjectDTO struct {
	Title       string   `json:"title"       binding:"required"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	ImageURLs   []string `json:"image_urls"  binding:"required"`
	FileURL     string   `json:"file_url"`
}

// UpdateProjectDTO uses pointers so omitted fields keep their stored value.
// FileURL: nil keeps, "" removes, anything else replaces.
type UpdateProjectDTO struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Link        *string  `json:"link"`
	ImageURLs   []string `json:"image_urls"`
	FileURL     *string  `json:"file_url"`
}

type Summary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ImageURLs    []string `json:"image_urls"`
	Views        uint64   `json:"views"`
	UserID       string   `json:"user_id"`
	AuthorName   string   `json:"author_name"`
	RelativeDate string   `json:"relative_date"`
	Created      string   `json:"created"`
}

type Detail struct {
	Summary
	Link         string `json:"link"`
	FileURL      string `json:"file_url"`
	IsAuthor     bool   `json:"is_author"`
	IsBookmarked bool   `json:"is_bookmarked"`
}

// NameResolver maps a user id to a presentable author name.
type NameResolver interface {
	DisplayNameOf(id string) string
}

type Service struct {
	db    *gorm.DB
	names NameResolver
}

func NewService(db *gorm.DB, names NameResolver) *Service {
	return &Service{db: db, names: names}
}

func validateCreate(dto *CreateProjectDTO) error {
	if strings.TrimSpace(dto.Title) == "" {
		return errEmptyTitle
	}
	if len(dto.ImageURLs) == 0 {
		return errNoImages
	}
	if len(dto.ImageURLs) > maxImages {
		return errTooManyImages
	}
	if len([]rune(dto.Description)) > maxDescriptionLen {
		return errDescriptionLen
	}
	return nil
}

func (s *Service) toSummary(p *models.ProjectModel, now time.Time) Summary {
	images := []string(p.ImageURLs)
	if images == nil {
		images = []string{}
	}
	return Summary{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		ImageURLs:    images,
		Views:        p.Views,
		UserID:       p.UserID,
		AuthorName:   s.names.DisplayNameOf(p.UserID),
		RelativeDate: timeago.Format(p.CreatedAt, now),
		Created:      p.CreatedAt.Format(time.RFC3339),
	}
}

func (s *Service) List() ([]Summary, error) {
	var rows []models.ProjectModel
	if err := s.db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]Summary, 0, len(rows))
	for i := range rows {
		out = append(out, s.toSummary(&rows[i], now))
	}
	return out, nil
}

func (s *Service) ListByIDs(ids []string) ([]Summary, error) {
	if len(ids) == 0 {
		return []Summary{}, nil
	}
	var rows []models.ProjectModel
	if err := s.db.Where("id IN ?", ids).
		Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]Summary, 0, len(rows))
	for i := range rows {
		out = append(out, s.toSummary(&rows[i], now))
	}
	return out, nil
}

func (s *Service) GetModel(id string) (*models.ProjectModel, error) {
	var p models.ProjectModel
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) Get(id, viewerID string) (*Detail, error) {
	p, err := s.GetModel(id)
	if err != nil {
		return nil, err
	}
	d := Detail{
		Summary: s.toSummary(p, time.Now()),
		Link:    p.Link,
		FileURL: p.FileURL,
	}
	if viewerID != "" {
		d.IsAuthor = viewerID == p.UserID
		var u models.UserModel
		if err := s.db.Select("bookmarks").
			First(&u, "id = ?", viewerID).Error; err == nil {
			d.IsBookmarked = u.Bookmarks.Contains(p.ID)
		}
	}
	return &d, nil
}

func (s *Service) Create(userID string, dto *CreateProjectDTO) (*models.ProjectModel, error) {
	if err := validateCreate(dto); err != nil {
		return nil, err
	}
	p := models.ProjectModel{
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Link:        dto.Link,
		ImageURLs:   models.StringArray(dto.ImageURLs),
		FileURL:     dto.FileURL,
		UserID:      userID,
	}
	return &p, s.db.Create(&p).Error
}

func (s *Service) Update(id, userID string, dto *UpdateProjectDTO) (*models.ProjectModel, error) {
	p, err := s.GetModel(id)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, errNotOwner
	}

	updates := map[string]interface{}{}
	if dto.Title != nil {
		if strings.TrimSpace(*dto.Title) == "" {
			return nil, errEmptyTitle
		}
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		if len([]rune(*dto.Description)) > maxDescriptionLen {
			return nil, errDescriptionLen
		}
		updates["description"] = *dto.Description
	}
	if dto.Link != nil {
		updates["link"] = *dto.Link
	}
	if dto.ImageURLs != nil {
		if len(dto.ImageURLs) == 0 {
			return nil, errNoImages
		}
		if len(dto.ImageURLs) > maxImages {
			return nil, errTooManyImages
		}
		updates["image_urls"] = models.StringArray(dto.ImageURLs)
	}
	if dto.FileURL != nil {
		updates["file_url"] = *dto.FileURL
	}
	if len(updates) == 0 {
		return p, nil
	}
	if err := s.db.Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetModel(id)
}

// Delete removes a project and its comments in one transaction. Comments
// without a surviving project would otherwise linger unreachable.
func (s *Service) Delete(id, userID string) error {
	p, err := s.GetModel(id)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return errNotOwner
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("project_id = ?", id).
			Delete(&models.CommentModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
}

type Handler struct {
	svc       *Service
	cache     *redispkg.Client
	webOrigin string
}

func NewHandler(svc *Service, cache *redispkg.Client) *Handler {
	return &Handler{svc: svc, cache: cache}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/projects")
	g.GET("", h.list)
	g.GET("/shared/:code", h.getShared)
	g.GET("/:id", h.get)
	g.GET("/:id/share", h.share)
	g.POST("", authMW, h.create)
	g.PATCH("/:id", authMW, h.update)
	g.DELETE("/:id", authMW, h.delete)
	g.POST("/:id/view", h.recordView)
}

func (h *Handler) purgeCache(c *gin.Context) {
	if h.cache != nil {
		_, _ = middleware.PurgeHTTPCache(c.Request.Context(), h.cache.Raw())
	}
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	d, err := h.svc.Get(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		if errors.Is(err, errProjectNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, d)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errNoImages), errors.Is(err, errTooManyImages),
			errors.Is(err, errEmptyTitle), errors.Is(err, errDescriptionLen):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	h.purgeCache(c)
	response.Created(c, gin.H{"id": p.ID})
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateProjectDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.svc.Update(c.Param("id"), middleware.CurrentUserID(c), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errProjectNotFound):
			response.NotFound(c)
		case errors.Is(err, errNotOwner):
			response.Forbidden(c)
		case errors.Is(err, errNoImages), errors.Is(err, errTooManyImages),
			errors.Is(err, errEmptyTitle), errors.Is(err, errDescriptionLen):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	h.purgeCache(c)
	response.OK(c, gin.H{"id": p.ID})
}

func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, errProjectNotFound):
			response.NotFound(c)
		case errors.Is(err, errNotOwner):
			response.Forbidden(c)
		default:
			response.InternalError(c, err)
		}
		return
	}
	h.purgeCache(c)
	response.NoContent(c)
}
