package main

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aatrey56/wc2022-eda/internal/engine"
	"github.com/aatrey56/wc2022-eda/internal/summary"
)

// errBadParam marks a malformed query-string parameter.
var errBadParam = errors.New("bad parameter")

// newRouter serves the MCP endpoint plus a small JSON API over the same
// catalogue. Every route sits behind the API key when one is configured.
func newRouter(scfg ServerConfig, cat *summary.Catalogue, registry []toolInfo, mcpHandler http.Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger), apiKeyAuth(scfg.APIKey, scfg.AuthHeader))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/tools", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"tools": registry})
	})

	api := r.Group("/api")
	api.GET("/queries", ListQueries(cat))
	api.GET("/queries/:name", RunQuery(cat))
	api.GET("/tables/:table/top", TopN(cat))
	api.GET("/tables/:table/extremes", Extremes(cat))
	api.GET("/groups", GroupStandings(cat))
	api.GET("/groups/:group", GroupStandings(cat))
	api.GET("/teams/:team", TeamLookup(cat))
	api.GET("/validate", Validate(cat))

	r.Any(scfg.MCPPath, gin.WrapH(mcpHandler))
	return r
}

// apiKeyAuth accepts the key in header, or as a bearer token. An empty key
// disables the check.
func apiKeyAuth(apiKey, header string) gin.HandlerFunc {
	if header == "" {
		header = "X-API-Key"
	}
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		key := strings.TrimSpace(c.GetHeader(header))
		if key == "" {
			if authz := c.GetHeader("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				key = strings.TrimSpace(authz[7:])
			}
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}

func ListQueries(cat *summary.Catalogue) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"queries": cat.Queries()})
	}
}

func RunQuery(cat *summary.Catalogue) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := cat.Run(c.Request.Context(), c.Param("name"))
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// TopN answers /api/tables/:table/top?column=goals&n=5&order=desc.
func TopN(cat *summary.Catalogue) gin.HandlerFunc {
	return func(c *gin.Context) {
		desc, err := summary.ParseOrder(c.Query("order"))
		if err != nil {
			abortWith(c, fmt.Errorf("%w: %v", errBadParam, err))
			return
		}
		n := defaultTopN
		if raw := c.Query("n"); raw != "" {
			n, err = strconv.Atoi(raw)
			if err != nil || n < 0 {
				abortWith(c, fmt.Errorf("%w: n must be a non-negative integer, got %q", errBadParam, raw))
				return
			}
		}
		res, err := cat.RunAdhoc(c.Request.Context(), summary.AdhocQuery{
			Table: c.Param("table"), Op: summary.OpTopN, Column: c.Query("column"), N: n, Descending: desc,
		})
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

func Extremes(cat *summary.Catalogue) gin.HandlerFunc {
	return func(c *gin.Context) {
		column := c.Query("column")
		if column == "" {
			abortWith(c, fmt.Errorf("%w: column is required", errBadParam))
			return
		}
		out, err := buildColumnExtremes(c.Request.Context(), cat, c.Param("table"), column)
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func GroupStandings(cat *summary.Catalogue) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := buildGroupStandings(c.Request.Context(), cat, c.Param("group"))
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func TeamLookup(cat *summary.Catalogue) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := buildTeamLookup(c.Request.Context(), cat, c.Param("team"))
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func Validate(cat *summary.Catalogue) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := buildValidation(c.Request.Context(), cat)
		if err != nil {
			abortWith(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func abortWith(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}

// statusFor maps catalogue and engine errors to HTTP status codes.
func statusFor(err error) int {
	var notFound *errTeamNotFound
	var groupMissing *errGroupNotFound
	switch {
	case errors.Is(err, summary.ErrUnknownQuery),
		errors.Is(err, summary.ErrUnknownTable),
		errors.As(err, &notFound),
		errors.As(err, &groupMissing):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrColumnNotFound),
		errors.Is(err, engine.ErrEmptyTable),
		errors.Is(err, summary.ErrUnknownOp),
		errors.Is(err, errBadParam):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
