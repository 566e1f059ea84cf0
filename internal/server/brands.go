package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reports/internal/registry"
	"reports/internal/reports"
	"reports/internal/store"
	"reports/models"
)

func (s *Server) listBrands(c *gin.Context) {
	brands, err := s.registry.Brands(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, brands)
}

func (s *Server) getBrand(c *gin.Context) {
	brand, err := s.registry.Brand(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, registry.ErrBrandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "brand not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, brand)
}

func (s *Server) createBrand(c *gin.Context) {
	var brand models.Brand
	if err := c.ShouldBindJSON(&brand); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.registry.CreateBrand(c.Request.Context(), &brand); err != nil {
		if errors.Is(err, registry.ErrBrandExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "brand id already exists"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, brand)
}

func (s *Server) updateBrand(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	brand, err := s.registry.UpdateBrand(c.Request.Context(), c.Param("id"), body.Name)
	if err != nil {
		if errors.Is(err, registry.ErrBrandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "brand not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, brand)
}

func (s *Server) deleteBrand(c *gin.Context) {
	err := s.registry.DeleteBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, registry.ErrBrandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "brand not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) brandDashboard(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		summary, err := engine.Dashboard(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"brand": brand, "summary": summary})
	})
}

func (s *Server) createUser(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.registry.CreateUser(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (s *Server) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.registry.VerifyUser(c.Request.Context(), body.Username, body.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, user)
}
