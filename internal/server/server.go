package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"reports/config"
	"reports/internal/ingest"
	"reports/internal/registry"
	"reports/internal/reports"
	"reports/internal/store"
	"reports/models"
)

// Server is the thin JSON surface over the core: handlers only translate
// HTTP to core calls and back.
type Server struct {
	cfg      *config.Config
	registry *registry.Registry
	pipeline *ingest.Pipeline
}

func NewServer(cfg *config.Config, reg *registry.Registry, pipeline *ingest.Pipeline) *Server {
	return &Server{
		cfg:      cfg,
		registry: reg,
		pipeline: pipeline,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")

	api.GET("/brands", s.listBrands)
	api.POST("/brands", s.createBrand)
	api.GET("/brands/:id", s.getBrand)
	api.PUT("/brands/:id", s.updateBrand)
	api.DELETE("/brands/:id", s.deleteBrand)

	api.GET("/brands/:id/dashboard", s.brandDashboard)
	api.POST("/brands/:id/import", s.importReport)
	api.GET("/brands/:id/imports", s.listImports)

	api.GET("/brands/:id/reports/monthly", s.monthlySummary)
	api.GET("/brands/:id/reports/weekly", s.weeklySummary)
	api.GET("/brands/:id/reports/total", s.salesTotal)
	api.GET("/brands/:id/reports/total-by-channel", s.salesTotalByChannel)
	api.GET("/brands/:id/reports/yearly", s.yearlySeries)

	api.GET("/brands/:id/asin-meta", s.listAsinMeta)
	api.GET("/brands/:id/asin-meta/:asin", s.getAsinMeta)
	api.PUT("/brands/:id/asin-meta/:asin", s.upsertAsinMeta)
	api.DELETE("/brands/:id/asin-meta/:asin", s.deleteAsinMeta)

	api.POST("/users", s.createUser)
	api.POST("/login", s.login)

	return r
}

// withBrandStore resolves the brand from the route, opens its store and
// runs fn with an engine over it. Responds 404 for unknown brands.
func (s *Server) withBrandStore(c *gin.Context, fn func(brand *models.Brand, st *store.Store, engine *reports.Engine)) {
	brand, err := s.registry.Brand(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, registry.ErrBrandNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "brand not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	st, err := store.OpenBrand(s.cfg, brand.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer st.Close()

	fn(brand, st, reports.NewEngine(st, nil))
}
