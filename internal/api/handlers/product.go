package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"productposts/internal/logger"
	"productposts/internal/models"
	"productposts/internal/repository"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	posts  repository.PostRepository
	logger *logger.Logger
}

func NewProductHandler(posts repository.PostRepository, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		posts:  posts,
		logger: logger,
	}
}

type productResponse struct {
	models.Post
	Meta map[string]string `json:"meta"`
}

func (h *ProductHandler) List(c *gin.Context) {
	// Pagination
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	posts, total, err := h.posts.List(c.Request.Context(), repository.ListFilter{
		Type:   models.PostTypeProduct,
		Search: c.Query("search"),
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		h.logger.Error("Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": posts,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	post, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("Failed to fetch product %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	if post.Type != models.PostTypeProduct {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": productResponse{Post: *post, Meta: post.MetaMap()}})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("Failed to delete product %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.Status(http.StatusNoContent)
}
