package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"reports/internal/ingest"
	"reports/internal/reports"
	"reports/internal/store"
	"reports/models"
)

const defaultMonths = 6

func (s *Server) monthlySummary(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		months := defaultMonths
		if raw := c.Query("months"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "months must be an integer"})
				return
			}
			months = n
		}

		summaries, err := engine.Monthly(c.Request.Context(), months, c.Query("channel"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summaries)
	})
}

func (s *Server) weeklySummary(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		start, end, err := dateRange(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		summaries, err := engine.Weekly(c.Request.Context(), start, end, c.Query("channel"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summaries)
	})
}

func (s *Server) salesTotal(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		start, end, err := dateRange(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		total, err := engine.SalesTotal(c.Request.Context(), start, end, c.Query("channel"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"total": total})
	})
}

func (s *Server) salesTotalByChannel(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		start, end, err := dateRange(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		totals, err := engine.SalesTotalByChannel(c.Request.Context(), start, end)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, totals)
	})
}

func (s *Server) yearlySeries(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		year, err := strconv.Atoi(c.Query("year"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "year must be an integer"})
			return
		}

		series, err := engine.YearlyChannelMonthlyTotals(c.Request.Context(), year)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, series)
	})
}

func (s *Server) listImports(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		recs, err := st.Imports(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, recs)
	})
}

// importReport accepts a multipart report upload, spools it to the tmp
// upload dir and runs the ingestion pipeline synchronously.
func (s *Server) importReport(c *gin.Context) {
	s.withBrandStore(c, func(brand *models.Brand, st *store.Store, engine *reports.Engine) {
		file, err := c.FormFile("report_file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "report_file is required"})
			return
		}

		name := strings.ToLower(file.Filename)
		if !strings.HasSuffix(name, ".txt") && !strings.HasSuffix(name, ".tsv") && !strings.HasSuffix(name, ".csv") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "only .txt, .tsv and .csv reports are supported"})
			return
		}

		if err := os.MkdirAll(s.cfg.TmpUploadDir(), 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ts := time.Now().UTC().Format("20060102-150405")
		safeName := strings.NewReplacer("/", "_", "\\", "_").Replace(file.Filename)
		tmpPath := filepath.Join(s.cfg.TmpUploadDir(), fmt.Sprintf("%s-%s-%s", brand.ID, ts, safeName))

		if err := c.SaveUploadedFile(file, tmpPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		res, err := s.pipeline.Run(c.Request.Context(), st, brand.ID, tmpPath)
		if err != nil {
			if errors.Is(err, ingest.ErrArchiveFailed) {
				// The rows are committed; the caller must know that even
				// though archiving failed.
				c.JSON(http.StatusOK, gin.H{
					"rows":    res.RowCount,
					"warning": err.Error(),
				})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"rows":     res.RowCount,
			"archived": res.ArchivedPath,
		})
	})
}

func dateRange(c *gin.Context) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date must be YYYY-MM-DD")
	}
	return start, end, nil
}
