package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/repository"
	"parley/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PresenceHandler struct {
	svc      *service.PresenceService
	userRepo *repository.UserRepository
}

func NewPresenceHandler(svc *service.PresenceService, userRepo *repository.UserRepository) *PresenceHandler {
	return &PresenceHandler{svc: svc, userRepo: userRepo}
}

func (h *PresenceHandler) currentUser(c *gin.Context) (*models.User, bool) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
		return nil, false
	}
	return u, true
}

// resolveTarget accepts a numeric user id or an email, scoped to the
// requester's realm.
func (h *PresenceHandler) resolveTarget(c *gin.Context, idOrEmail string, realmID uint) (*models.User, bool) {
	var target *models.User
	var err error
	if id, convErr := strconv.ParseUint(idOrEmail, 10, 64); convErr == nil {
		target, err = h.userRepo.GetByIDInRealm(uint(id), realmID)
	} else {
		target, err = h.userRepo.GetByEmailInRealm(idOrEmail, realmID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such user"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		}
		return nil, false
	}
	return target, true
}

type heartbeatRequest struct {
	Status           string `json:"status" binding:"required"`
	NewUserInput     bool   `json:"new_user_input"`
	PingOnly         bool   `json:"ping_only"`
	SlimPresence     bool   `json:"slim_presence"`
	LastUpdateID     *int64 `json:"last_update_id"`
	HistoryLimitDays *int   `json:"history_limit_days" binding:"omitempty,min=0"`
}

// UpdateActiveStatus records a heartbeat from the calling client and returns
// the caller's presence in the requested protocol shape (or nothing for
// ping-only requests).
func (h *PresenceHandler) UpdateActiveStatus(c *gin.Context) {
	var req heartbeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	ret, err := h.svc.Heartbeat(user, middleware.GetClientName(c), time.Now(), service.HeartbeatOptions{
		Status:           req.Status,
		NewUserInput:     req.NewUserInput,
		PingOnly:         req.PingOnly,
		Slim:             req.SlimPresence,
		LastUpdateID:     req.LastUpdateID,
		HistoryLimitDays: req.HistoryLimitDays,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid status: %s", req.Status)})
		case errors.Is(err, service.ErrBotPresence):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "presence update failed"})
		}
		return
	}
	c.JSON(http.StatusOK, ret)
}

// GetUserPresence returns the full-shape presence of one user, identified by
// id or email. Other users' views never expose client identity or pushable.
func (h *PresenceHandler) GetUserPresence(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	target, ok := h.resolveTarget(c, c.Param("id"), viewer.RealmID)
	if !ok {
		return
	}
	view, err := h.svc.UserPresence(target, viewer, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBotPresence), errors.Is(err, service.ErrCannotViewUser):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNoPresenceData):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "presence lookup failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"presence": view})
}

// GetRealmPresence is a full snapshot of everyone visible in the caller's
// realm, keyed by user id. Not incremental; no checkpoint in the response.
func (h *PresenceHandler) GetRealmPresence(c *gin.Context) {
	viewer, ok := h.currentUser(c)
	if !ok {
		return
	}
	views, err := h.svc.RealmPresence(viewer, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "presence lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"presence": views})
}
