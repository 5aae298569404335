package web

import (
	"crypto/subtle"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Zachkp/devfolio/internal/store"
)

const (
	adminCookie   = "admin_token"
	adminTokenTTL = 24 * time.Hour
)

// AdminStats is everything the dashboard shows.
type AdminStats struct {
	Messages       int                 `json:"messages"`
	RecentMessages []store.Message     `json:"recent_messages"`
	Visitors       *store.VisitorStats `json:"visitors,omitempty"`
}

func (s *Server) issueAdminToken(username string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   username,
		Issuer:    "devfolio",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(adminTokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.adminSecret)
}

func (s *Server) verifyAdminToken(raw string) error {
	_, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
		return s.adminSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer("devfolio"))
	return err
}

func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(adminCookie)
		if err != nil || s.verifyAdminToken(raw) != nil {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) adminStats(c *gin.Context) (*AdminStats, error) {
	msgs, err := s.inbox.All()
	if err != nil {
		return nil, err
	}
	stats := &AdminStats{Messages: len(msgs)}
	recent := slices.Clone(msgs)
	slices.Reverse(recent)
	if len(recent) > 10 {
		recent = recent[:10]
	}
	stats.RecentMessages = recent

	if s.visitors != nil {
		stats.Visitors, err = s.visitors.Stats(c.Request.Context())
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}

// clientHash keeps raw IPs out of the admin log lines.
func (s *Server) clientHash(c *gin.Context) string {
	if s.visitors == nil {
		return "unknown"
	}
	return s.visitors.HashIP(c.ClientIP())
}

func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"retentionDays": int(s.cfg.VisitorRetention.Hours() / 24),
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
		if !userOK || !passOK {
			log.Printf("Failed admin login attempt from %s", s.clientHash(c))
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		token, err := s.issueAdminToken(username, time.Now())
		if err != nil {
			log.Printf("Error issuing admin token: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to sign in",
			})
			return
		}
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, token, int(adminTokenTTL.Seconds()), "/admin", "", c.Request.TLS != nil, true)
		log.Printf("Admin login successful from %s", s.clientHash(c))
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", c.Request.TLS != nil, true)
		log.Printf("Admin logout from %s", s.clientHash(c))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.adminStats(c)
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"title": "Dashboard",
			"stats": stats,
		})
	})

	admin.GET("/messages", func(c *gin.Context) {
		msgs, err := s.inbox.All()
		if err != nil {
			log.Printf("Error loading messages: %v", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load messages",
			})
			return
		}
		slices.Reverse(msgs)
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{
			"title":    "Messages",
			"messages": msgs,
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.adminStats(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/export/messages", func(c *gin.Context) {
		msgs, err := s.inbox.All()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if msgs == nil {
			msgs = []store.Message{}
		}
		c.Header("Content-Disposition", "attachment; filename=messages.json")
		c.JSON(http.StatusOK, msgs)
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		if s.visitors == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "visitor tracking is disabled"})
			return
		}
		n, err := s.visitors.Cleanup(c.Request.Context(), s.cfg.VisitorRetention)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": n})
	})
}
