package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/auth"
	"github.com/portfolio/internal/handler"
	"github.com/portfolio/internal/metrics"
	"github.com/portfolio/internal/storage"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// Options 描述构建路由所需的依赖
type Options struct {
	DB             *gorm.DB
	Files          *storage.Manager
	Tokens         *auth.Tokens
	StaticDir      string
	MetricsEnabled bool
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), handler.RequestID())
	r.MaxMultipartMemory = 8 << 20

	if opts.MetricsEnabled {
		m := metrics.New("portfolio")
		r.Use(m.Middleware())
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	api := handler.NewAPI(opts.DB, opts.Files, opts.Tokens)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// 上传文件以公开路径对外提供
	r.Static(opts.Files.URLPrefix(), opts.Files.Dir())

	public := r.Group("/api")
	{
		public.GET("/portfolio", api.GetPortfolio)
		public.POST("/messages", api.CreateMessage)
		public.GET("/documents", api.ListDocuments())
		public.POST("/documents", api.RequireAdmin(), api.LimitUploadBody(), api.UploadDocument)

		public.GET("/announcements", api.ListAnnouncements)
		public.GET("/announcements/:id/comments", api.ListComments)
		public.POST("/announcements/:id/comments", api.CreateComment)
		public.GET("/comments/:id/replies", api.ListCommentReplies)
		public.POST("/comments/:id/replies", api.CreateCommentReply)

		public.POST("/admin/login", api.Login)
		public.POST("/admin/password-reset", api.PasswordReset)
	}

	// 需要管理员令牌的路由
	admin := r.Group("/api/admin")
	admin.Use(api.RequireAdmin())
	{
		admin.GET("/session", api.Session)

		admin.GET("/messages", api.ListMessages)
		admin.GET("/messages/stats", api.MessageStats)
		admin.DELETE("/messages/:id", api.DeleteMessage)
		admin.GET("/messages/:id/replies", api.ListMessageReplies)
		admin.POST("/messages/:id/reply", api.ReplyMessage)

		admin.GET("/documents", api.ListAllDocuments)
		admin.POST("/documents", api.LimitUploadBody(), api.UploadDocument)
		admin.PUT("/documents/:id", api.UpdateDocumentType)
		admin.DELETE("/documents/:id", api.DeleteDocument)

		admin.GET("/announcements", api.ListAnnouncements)
		admin.POST("/announcements", api.LimitUploadBody(), api.CreateAnnouncement)
		admin.DELETE("/announcements/:id", api.DeleteAnnouncement)
		admin.DELETE("/announcements/comments/:id", api.DeleteComment)
		admin.DELETE("/comments/replies/:id", api.DeleteCommentReply)

		admin.PUT("/profile", api.UpdateProfile)
		admin.POST("/education", api.CreateEducation)
		admin.PUT("/education/:id", api.UpdateEducation)
		admin.DELETE("/education/:id", api.DeleteEducation)
		admin.POST("/skills", api.CreateSkill)
		admin.PUT("/skills/:id", api.UpdateSkill)
		admin.DELETE("/skills/:id", api.DeleteSkill)
	}

	r.NoRoute(spaFallback(opts.StaticDir, "/api/", opts.Files.URLPrefix()+"/"))

	return r
}

// spaFallback 为前端单页应用提供静态文件，未命中的非 API 路径回退到 index.html
// reserved 中的前缀始终返回 404，不会落到前端页面
func spaFallback(staticDir string, reserved ...string) gin.HandlerFunc {
	staticDir = strings.TrimSpace(staticDir)
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if staticDir == "" || c.Request.Method != http.MethodGet || hasAnyPrefix(reqPath, reserved) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}

		candidate := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+reqPath)))
		if serveStatic(c, candidate) {
			return
		}
		if !serveStatic(c, filepath.Join(staticDir, "index.html")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
		}
	}
}

// serveStatic 按已清理的磁盘路径输出文件，不再依据请求路径判断，
// 因此带 .. 的请求同样回退到 index.html。文件不存在或是目录时返回 false
func serveStatic(c *gin.Context, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return true
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// NewHandler 在 Gin 引擎外包一层 CORS，供前端跨域调用
func NewHandler(engine *gin.Engine, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", handler.RequestIDHeader},
		ExposedHeaders: []string{handler.RequestIDHeader},
		MaxAge:         600,
	})
	return c.Handler(engine)
}
