package bookmark

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LeeBhin/boasting/internal/middleware"
	"github.com/LeeBhin/boasting/internal/models"
	"github.com/LeeBhin/boasting/internal/modules/project"
	"github.com/LeeBhin/boasting/internal/pkg/response"
)

var errProjectNotFound = errors.New("project not found")

type Service struct {
	db       *gorm.DB
	projects *project.Service
}

func NewService(db *gorm.DB, projects *project.Service) *Service {
	return &Service{db: db, projects: projects}
}

// Toggle flips the bookmark state for (user, project) and reports the
// new state.
func (s *Service) Toggle(userID, projectID string) (bookmarked bool, err error) {
	if _, err := s.projects.GetModel(projectID); err != nil {
		return false, errProjectNotFound
	}

	var u models.UserModel
	if err := s.db.First(&u, "id = ?", userID).Error; err != nil {
		return false, err
	}

	if u.Bookmarks.Contains(projectID) {
		u.Bookmarks = u.Bookmarks.Without(projectID)
		bookmarked = false
	} else {
		u.Bookmarks = append(u.Bookmarks, projectID)
		bookmarked = true
	}
	return bookmarked, s.db.Model(&u).
		UpdateColumn("bookmarks", u.Bookmarks).Error
}

// List returns the user's bookmarked projects as list summaries.
// Ids of deleted projects stay in the set but simply resolve to nothing.
func (s *Service) List(userID string) ([]project.Summary, error) {
	var u models.UserModel
	if err := s.db.Select("bookmarks").
		First(&u, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return s.projects.ListByIDs(u.Bookmarks)
}

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/bookmarks", authMW)
	g.GET("", h.list)
	g.PUT("/:projectId", h.toggle)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) toggle(c *gin.Context) {
	bookmarked, err := h.svc.Toggle(middleware.CurrentUserID(c), c.Param("projectId"))
	if err != nil {
		if errors.Is(err, errProjectNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"bookmarked": bookmarked})
}
