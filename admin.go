// admin.go - privacy-conscious visitor and terminal analytics
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/cosmic-portfolio/internal/config"
	"github.com/Zachkp/cosmic-portfolio/internal/logging"
)

// Privacy-conscious visitor tracking struct
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"` // Hashed instead of raw IP for privacy
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// CommandStat aggregates one terminal command across all sessions.
type CommandStat struct {
	Command  string    `json:"command"`
	Uses     int64     `json:"uses"`
	Failures int64     `json:"failures"`
	LastUsed time.Time `json:"last_used"`
}

type AdminStats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalCommands    int64           `json:"total_commands"`
	Checkouts        int64           `json:"checkouts"`
	ActiveSessions   int             `json:"active_sessions"`
	TopCommands      []CommandStat   `json:"top_commands"`
	RecentVisitors   []VisitorMetric `json:"recent_visitors"`
}

var adminToken string
var hashingSalt string

// Initialize admin system with privacy considerations
func initAdminToken() {
	adminToken = generateToken()
	hashingSalt = generateToken() // Use for IP hashing

	logging.Info("admin access available", zap.String("path", "/admin/login"))
	if gin.Mode() == gin.DebugMode {
		logging.Debug("admin token (dev only)", zap.String("token", adminToken))
	}
}

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		logging.Fatal("failed to generate token", zap.Error(err))
	}
	return hex.EncodeToString(bytes)
}

// Hash IP address for privacy compliance (consistent per IP)
func hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16] // Truncate for storage efficiency
}

// Middleware to check admin authentication
func adminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("admin_token")
		if err != nil || adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only page views count; terminal traffic is recorded per command.
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/terminal/") ||
			strings.HasPrefix(path, "/metrics") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		// Track visitor with hashed IP in background
		go trackVisitorPrivacy(db, hashIP(c.ClientIP()), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

// Track visitor with privacy protections
func trackVisitorPrivacy(conn *sql.DB, hashedIP, userAgent, path string) {
	if conn == nil {
		return
	}
	_, err := conn.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashedIP, userAgent, path, nowStamp())
	if err != nil {
		logging.Warn("error recording visitor", zap.Error(err))
	}
}

// Cleanup old analytics for privacy compliance
func cleanupOldVisitorData() {
	for _, table := range []string{"visitors", "terminal_commands"} {
		result, err := db.Exec(`DELETE FROM ` + table + ` WHERE timestamp < datetime('now', '-12 months')`)
		if err != nil {
			logging.Error("privacy cleanup failed", zap.String("table", table), zap.Error(err))
			continue
		}
		if n, _ := result.RowsAffected(); n > 0 {
			logging.Info("privacy cleanup removed old records", zap.String("table", table), zap.Int64("rows", n))
		}
	}
}

// Get comprehensive admin statistics
func getAdminStats(store *sessionStore) (*AdminStats, error) {
	stats := &AdminStats{}
	if store != nil {
		stats.ActiveSessions = store.len()
	}

	counts := []struct {
		query string
		dst   *int64
	}{
		// Total and unique visitors (by hashed IP)
		{"SELECT COUNT(*) FROM visitors", &stats.TotalVisitors},
		{"SELECT COUNT(DISTINCT hashed_ip) FROM visitors", &stats.UniqueVisitors},
		// Visitors today and this week
		{"SELECT COUNT(*) FROM visitors WHERE DATE(timestamp) = DATE('now')", &stats.VisitorsToday},
		{"SELECT COUNT(*) FROM visitors WHERE timestamp >= datetime('now', '-7 days')", &stats.VisitorsThisWeek},
		// Terminal usage
		{"SELECT COUNT(*) FROM terminal_commands", &stats.TotalCommands},
		{"SELECT COUNT(*) FROM terminal_commands WHERE outcome = 'navigate'", &stats.Checkouts},
	}
	for _, q := range counts {
		if err := db.QueryRow(q.query).Scan(q.dst); err != nil {
			return nil, err
		}
	}

	var err error
	if stats.TopCommands, err = queryCommandStats(10); err != nil {
		return nil, err
	}
	// Recent visitors (with hashed IPs for privacy)
	if stats.RecentVisitors, err = queryVisitors(50); err != nil {
		return nil, err
	}
	return stats, nil
}

func queryCommandStats(limit int) ([]CommandStat, error) {
	rows, err := db.Query(`
		SELECT command, COUNT(*) AS uses,
			SUM(CASE WHEN outcome NOT IN ('ok', 'navigate') THEN 1 ELSE 0 END) AS failures,
			MAX(timestamp) AS last_used
		FROM terminal_commands
		GROUP BY command
		ORDER BY uses DESC, command ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CommandStat
	for rows.Next() {
		var s CommandStat
		var last string
		if err := rows.Scan(&s.Command, &s.Uses, &s.Failures, &last); err != nil {
			continue
		}
		s.LastUsed = parseTimestamp(last)
		out = append(out, s)
	}
	return out, rows.Err()
}

func queryVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []VisitorMetric
	for rows.Next() {
		var v VisitorMetric
		var ts string
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			continue
		}
		v.Timestamp = parseTimestamp(ts)
		out = append(out, v)
	}
	return out, rows.Err()
}

func adminCredentials(cfg *config.Config) (string, string) {
	username, password := cfg.AdminUsername, cfg.AdminPassword

	// Default credentials for development only
	if username == "" {
		username = "admin"
		if gin.Mode() == gin.DebugMode {
			logging.Warn("using default admin username, set ADMIN_USERNAME")
		}
	}
	if password == "" {
		password = "admin123"
		if gin.Mode() == gin.DebugMode {
			logging.Warn("using default admin password, set ADMIN_PASSWORD")
		}
	}
	return username, password
}

// Setup all admin routes
func setupAdminRoutes(r *gin.Engine, cfg *config.Config, store *sessionStore) {
	// Privacy policy route
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	// Admin login page
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	// Admin login handler
	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")
		// Credentials come from the environment, with development defaults
		wantUser, wantPass := adminCredentials(cfg)

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPass)) == 1
		if userOK && passOK {
			// Set secure cookie (24 hours)
			c.SetCookie("admin_token", adminToken, 3600*24, "/admin", "", false, true)
			logging.Info("admin login successful", zap.String("client", hashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		logging.Warn("failed admin login attempt", zap.String("client", hashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	// Admin logout
	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie("admin_token", "", -1, "/admin", "", false, true)
		logging.Info("admin logout", zap.String("client", hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	// Protected admin routes group
	adminGroup := r.Group("/admin")
	adminGroup.Use(adminAuthMiddleware())

	// Admin dashboard
	adminGroup.GET("/dashboard", func(c *gin.Context) {
		stats, err := getAdminStats(store)
		if err != nil {
			logging.Error("error loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	// Admin API endpoints for HTMX/AJAX
	adminGroup.GET("/api/stats", func(c *gin.Context) {
		stats, err := getAdminStats(store)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	// View visitors
	adminGroup.GET("/visitors", func(c *gin.Context) {
		visitors, err := queryVisitors(200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	// View command usage
	adminGroup.GET("/commands", func(c *gin.Context) {
		commands, err := queryCommandStats(100)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"commands": commands})
	})

	// Forget every recorded use of one command.
	adminGroup.DELETE("/commands/:command", func(c *gin.Context) {
		command := c.Param("command")

		result, err := db.Exec("DELETE FROM terminal_commands WHERE command = ?", command)
		if err != nil {
			logging.Error("error deleting command history", zap.String("command", command), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete command history"})
			return
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "command not found"})
			return
		}

		logging.Info("command history deleted", zap.String("command", command), zap.Int64("rows", rowsAffected))
		c.JSON(http.StatusOK, gin.H{"message": "Command history deleted", "rows": rowsAffected})
	})

	// Privacy compliance endpoint - clean up visitor data past retention
	adminGroup.POST("/privacy/delete-visitor-data", func(c *gin.Context) {
		go cleanupOldVisitorData()
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup initiated"})
	})

	// Admin statistics export (for backups or analysis)
	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := getAdminStats(store)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Set headers for file download
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		logging.Info("admin stats exported", zap.String("client", hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
