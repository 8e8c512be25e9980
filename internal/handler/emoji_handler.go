package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"parley/internal/middleware"
	"parley/internal/models"
	"parley/internal/repository"
	"parley/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EmojiHandler struct {
	emojiRepo *repository.EmojiRepository
	cloud     cloudinary.Client
}

func NewEmojiHandler(emojiRepo *repository.EmojiRepository, cloud cloudinary.Client) *EmojiHandler {
	return &EmojiHandler{emojiRepo: emojiRepo, cloud: cloud}
}

// List returns the realm's active custom emoji.
func (h *EmojiHandler) List(c *gin.Context) {
	rows, err := h.emojiRepo.ListActive(middleware.GetRealmID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "emoji lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"emoji": rows})
}

// Upload registers a custom realm emoji from an uploaded image. Admin only.
func (h *EmojiHandler) Upload(c *gin.Context) {
	name := strings.ToLower(strings.TrimSpace(c.Param("name")))
	if name == "" || strings.ContainsAny(name, " :") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid emoji name"})
		return
	}
	realmID := middleware.GetRealmID(c)
	if _, err := h.emojiRepo.GetByName(realmID, name); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "emoji name already in use"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "emoji lookup failed"})
		return
	}
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file required"})
		return
	}
	defer file.Close()
	url, _, err := h.cloud.UploadImage(c.Request.Context(), file, "realm_emoji", fmt.Sprintf("%d_%s", realmID, name))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
		return
	}
	emoji := &models.RealmEmoji{
		RealmID:  realmID,
		Name:     name,
		ImageURL: url,
		AuthorID: middleware.GetUserID(c),
	}
	if err := h.emojiRepo.Create(emoji); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "emoji create failed"})
		return
	}
	// The wire code for a realm emoji is its row id.
	emoji.Code = fmt.Sprintf("%d", emoji.ID)
	if err := h.emojiRepo.Update(emoji); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "emoji create failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"emoji": emoji})
}

// Deactivate retires a custom emoji. Existing statuses referencing it stay
// valid; new lookups by name stop resolving to it.
func (h *EmojiHandler) Deactivate(c *gin.Context) {
	name := c.Param("name")
	realmID := middleware.GetRealmID(c)
	if _, err := h.emojiRepo.GetByName(realmID, name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such emoji"})
		return
	}
	if err := h.emojiRepo.Deactivate(realmID, name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "emoji deactivate failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": "success"})
}
