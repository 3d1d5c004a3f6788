package comment

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LeeBhin/boasting/internal/middleware"
	"github.com/LeeBhin/boasting/internal/models"
	"github.com/LeeBhin/boasting/internal/pkg/response"
	"github.com/LeeBhin/boasting/internal/pkg/stars"
	"github.com/LeeBhin/boasting/internal/pkg/timeago"
)

var (
	errAlreadyCommented = errors.New("이미 작성하셨습니다.")
	errEmptyComment     = errors.New("댓글 내용을 입력해주세요.")
	errBadRating        = errors.New("별점은 0.5 단위로 0에서 5 사이여야 합니다.")
	errCommentNotFound  = errors.New("comment not found")
	errNotAuthor        = errors.New("not author")
)

type CreateCommentDTO struct {
	Comment string  `json:"comment" binding:"required"`
	Rating  float64 `json:"rating"`
}

type commentResponse struct {
	ID           string        `json:"id"`
	ProjectID    string        `json:"project_id"`
	UserID       string        `json:"user_id"`
	AuthorName   string        `json:"author_name"`
	Comment      string        `json:"comment"`
	Rating       float64       `json:"rating"`
	Stars        [5]stars.Kind `json:"stars"`
	RelativeDate string        `json:"relative_date"`
	Created      string        `json:"created"`
	IsMine       bool          `json:"is_mine"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// authorNameOf resolves the commenter's presentable name. A user whose
// display name is blank shows as "익명"; a user record that no longer
// exists shows as "알 수 없음".
func (s *Service) authorNameOf(userID string) string {
	var u models.UserModel
	err := s.db.Select("username, display_name").
		First(&u, "id = ?", userID).Error
	if err != nil {
		return "알 수 없음"
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Username != "" {
		return u.Username
	}
	return "익명"
}

func (s *Service) toResponse(m *models.CommentModel, viewerID string, now time.Time) commentResponse {
	return commentResponse{
		ID:           m.ID,
		ProjectID:    m.ProjectID,
		UserID:       m.UserID,
		AuthorName:   s.authorNameOf(m.UserID),
		Comment:      m.Text,
		Rating:       m.Rating,
		Stars:        stars.Render(m.Rating),
		RelativeDate: timeago.Format(m.CreatedAt, now),
		Created:      m.CreatedAt.Format(time.RFC3339),
		IsMine:       viewerID != "" && viewerID == m.UserID,
	}
}

func (s *Service) ListByProject(projectID, viewerID string) ([]commentResponse, error) {
	var rows []models.CommentModel
	if err := s.db.Where("project_id = ?", projectID).
		Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]commentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, s.toResponse(&rows[i], viewerID, now))
	}
	return out, nil
}

// hasCommented also consults the legacy ratings table so users who only
// rated under the old schema still count as having written one.
func (s *Service) hasCommented(projectID, userID string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.CommentModel{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := s.db.Model(&models.RatingModel{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) Create(projectID, userID string, dto *CreateCommentDTO) (*models.CommentModel, error) {
	text := strings.TrimSpace(dto.Comment)
	if text == "" {
		return nil, errEmptyComment
	}
	if !stars.Valid(dto.Rating) {
		return nil, errBadRating
	}

	dup, err := s.hasCommented(projectID, userID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, errAlreadyCommented
	}

	m := models.CommentModel{
		ProjectID: projectID,
		UserID:    userID,
		Text:      text,
		Rating:    dto.Rating,
	}
	if err := s.db.Create(&m).Error; err != nil {
		// unique index on (project_id, user_id) catches the race the
		// pre-insert check can miss
		if strings.Contains(err.Error(), "idx_project_user") ||
			strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "Duplicate entry") {
			return nil, errAlreadyCommented
		}
		return nil, err
	}
	return &m, nil
}

func (s *Service) Delete(id, userID string) error {
	var m models.CommentModel
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCommentNotFound
		}
		return err
	}
	if m.UserID != userID {
		return errNotAuthor
	}
	// hard delete: a soft-deleted row would still hold the
	// (project_id, user_id) unique slot and block a new comment
	return s.db.Unscoped().Delete(&m).Error
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/projects/:id/comments", h.list)
	rg.POST("/projects/:id/comments", authMW, h.create)
	rg.DELETE("/comments/:id", authMW, h.delete)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.ListByProject(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateCommentDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	m, err := h.svc.Create(c.Param("id"), middleware.CurrentUserID(c), &dto)
	if err != nil {
		switch {
		case errors.Is(err, errAlreadyCommented):
			response.Conflict(c, err.Error())
		case errors.Is(err, errEmptyComment), errors.Is(err, errBadRating):
			response.UnprocessableEntity(c, err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, gin.H{"id": m.ID})
}

func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, errCommentNotFound):
			response.NotFound(c)
		case errors.Is(err, errNotAuthor):
			response.Forbidden(c)
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.NoContent(c)
}
