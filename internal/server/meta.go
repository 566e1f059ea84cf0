package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reports/internal/reports"
	"reports/internal/store"
	"reports/models"
)

func (s *Server) listAsinMeta(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		metas, err := st.AllAsinMeta(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, metas)
	})
}

func (s *Server) getAsinMeta(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		meta, err := st.AsinMeta(c.Request.Context(), c.Param("asin"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if meta == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "asin not found"})
			return
		}
		c.JSON(http.StatusOK, meta)
	})
}

// upsertAsinMeta replaces the record wholesale; fields omitted from the
// body come back absent.
func (s *Server) upsertAsinMeta(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		var meta models.AsinMeta
		if err := c.ShouldBindJSON(&meta); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		meta.ASIN = c.Param("asin")

		if err := st.UpsertAsinMeta(c.Request.Context(), meta); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, meta)
	})
}

func (s *Server) deleteAsinMeta(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		if err := st.DeleteAsinMeta(c.Request.Context(), c.Param("asin")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})
}
