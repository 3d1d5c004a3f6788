package project

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/LeeBhin/boasting/internal/pkg/response"
)

// ShareCode is the project id in standard base64, same as the web
// client's btoa output.
func ShareCode(projectID string) string {
	return base64.StdEncoding.EncodeToString([]byte(projectID))
}

func DecodeShareCode(code string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ShareLink builds the URL the client copies to the clipboard.
func (s *Service) ShareLink(origin, projectID string) (string, error) {
	if _, err := s.GetModel(projectID); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/?sharingcode=%s", origin, ShareCode(projectID)), nil
}

// SetWebOrigin wires the configured front-end origin into share links.
func (h *Handler) SetWebOrigin(origin string) { h.webOrigin = origin }

func (h *Handler) share(c *gin.Context) {
	link, err := h.svc.ShareLink(h.webOrigin, c.Param("id"))
	if err != nil {
		if errors.Is(err, errProjectNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"code": ShareCode(c.Param("id")),
		"link": link,
	})
}

func (h *Handler) getShared(c *gin.Context) {
	id, err := DecodeShareCode(c.Param("code"))
	if err != nil {
		response.BadRequest(c, "잘못된 공유 코드입니다.")
		return
	}
	d, svcErr := h.svc.Get(id, "")
	if svcErr != nil {
		if errors.Is(svcErr, errProjectNotFound) {
			response.NotFound(c)
			return
		}
		response.InternalError(c, svcErr)
		return
	}
	response.OK(c, d)
}
