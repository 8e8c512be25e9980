package handler

import (
	"errors"
	"net/http"

	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/repository"
	"parley/internal/service"

	"github.com/gin-gonic/gin"
)

type StatusHandler struct {
	svc      *service.StatusService
	userRepo *repository.UserRepository
}

func NewStatusHandler(svc *service.StatusService, userRepo *repository.UserRepository) *StatusHandler {
	return &StatusHandler{svc: svc, userRepo: userRepo}
}

type statusUpdateRequest struct {
	Away       *bool   `json:"away"`
	StatusText *string `json:"status_text"`
	EmojiName  *string `json:"emoji_name"`
	EmojiCode  *string `json:"emoji_code"`
	EmojiType  *string `json:"emoji_type"`
}

// statusResponse shapes the stored override for the wire, omitting unset
// fields like the original API.
type statusResponse struct {
	Away       bool   `json:"away,omitempty"`
	StatusText string `json:"status_text,omitempty"`
	EmojiName  string `json:"emoji_name,omitempty"`
	EmojiCode  string `json:"emoji_code,omitempty"`
	EmojiType  string `json:"emoji_type,omitempty"`
}

func toStatusResponse(st *models.UserStatus) statusResponse {
	resp := statusResponse{
		Away:       st.Away,
		StatusText: st.StatusText,
		EmojiName:  st.EmojiName,
		EmojiCode:  st.EmojiCode,
	}
	if st.EmojiName != "" {
		resp.EmojiType = st.EmojiType
	}
	return resp
}

// GetStatus returns the target user's status override.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	viewer, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	target, err := h.userRepo.GetByIDInRealm(parseID(c.Param("id")), viewer.RealmID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such user"})
		return
	}
	st, err := h.svc.GetStatus(target)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": toStatusResponse(st)})
}

// UpdateStatus applies a partial status change to the caller's own override.
func (h *StatusHandler) UpdateStatus(c *gin.Context) {
	user, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	h.applyUpdate(c, user)
}

// UpdateStatusAdmin lets a realm admin apply the same partial change to
// another user in their realm. The merge logic is shared with UpdateStatus;
// only the authorization differs.
func (h *StatusHandler) UpdateStatusAdmin(c *gin.Context) {
	admin, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return
	}
	target, err := h.userRepo.GetByIDInRealm(parseID(c.Param("id")), admin.RealmID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such user"})
		return
	}
	h.applyUpdate(c, target)
}

func (h *StatusHandler) applyUpdate(c *gin.Context, target *models.User) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := h.svc.UpdateStatus(target, middleware.GetClientName(c), service.StatusUpdate{
		Away:       req.Away,
		StatusText: req.StatusText,
		EmojiName:  req.EmojiName,
		EmojiCode:  req.EmojiCode,
		EmojiType:  req.EmojiType,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyStatusUpdate),
			errors.Is(err, service.ErrStatusTextTooLong),
			errors.Is(err, service.ErrEmojiWithoutName),
			errors.Is(err, repository.ErrEmojiInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrEmojiNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "status update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "success"})
}
