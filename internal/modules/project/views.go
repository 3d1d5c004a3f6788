package project

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LeeBhin/boasting/internal/middleware"
	"github.com/LeeBhin/boasting/internal/models"
	"github.com/LeeBhin/boasting/internal/pkg/response"
)

// RecordView counts a view at most once per (user, project) pair.
// Anonymous viewers are not tracked and never move the counter.
// Membership check and increment are two separate writes, so two
// first-time requests racing can both count; a repeat never does.
func (s *Service) RecordView(userID, projectID string) (counted bool, err error) {
	if userID == "" {
		return false, nil
	}
	if _, err := s.GetModel(projectID); err != nil {
		return false, err
	}

	var uv models.UserViewsModel
	err = s.db.First(&uv, "user_id = ?", userID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		uv = models.UserViewsModel{
			UserID:         userID,
			ViewedProjects: models.StringArray{projectID},
		}
		if err := s.db.Create(&uv).Error; err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	default:
		if uv.ViewedProjects.Contains(projectID) {
			return false, nil
		}
		uv.ViewedProjects = append(uv.ViewedProjects, projectID)
		if err := s.db.Model(&uv).
			UpdateColumn("viewed_projects", uv.ViewedProjects).Error; err != nil {
			return false, err
		}
	}

	if err := s.db.Model(&models.ProjectModel{}).
		Where("id = ?", projectID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (h *Handler) recordView(c *gin.Context) {
	counted, err := h.svc.RecordView(middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, errProjectNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	if counted {
		h.purgeCache(c)
	}
	response.OK(c, gin.H{"counted": counted})
}
