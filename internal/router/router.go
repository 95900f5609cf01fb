package router

import (
	"net/http"
	"time"

	"Blog_Backend/internal/handler"
	"Blog_Backend/internal/middleware"
	"Blog_Backend/internal/repository/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const APIPrefix = "/api"

// Route 一条路由及其访问能力
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Public  bool // 跳过登录校验
	Admin   bool // 需要 admin 角色
	Limited bool // 按 IP 限流
}

type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Article      *handler.ArticleHandler
	Interaction  *handler.InteractionHandler
	Comment      *handler.CommentHandler
	Notification *handler.NotificationHandler
	Role         *handler.RoleHandler
	Permission   *handler.PermissionHandler
	Menu         *handler.MenuHandler
	Content      *handler.ContentHandler
	Media        *handler.MediaHandler
	WS           *handler.WSHandler
}

type Deps struct {
	Handlers        Handlers
	Tokens          *redis.TokenRepository
	Limiter         *redis.RateLimiter
	RateLimitMax    int
	RateLimitWindow time.Duration
	CORSOrigins     []string
	UploadDir       string // 为空时不挂载本地静态目录
	Log             *logrus.Logger
}

// Routes 完整路由表，路径不含 /api 前缀
func Routes(h Handlers) []Route {
	return []Route{
		// 认证
		{Method: http.MethodGet, Path: "/auth/captcha", Handler: h.Auth.Captcha, Public: true},
		{Method: http.MethodPost, Path: "/auth/login", Handler: h.Auth.Login, Public: true, Limited: true},
		{Method: http.MethodPost, Path: "/auth/refresh", Handler: h.Auth.Refresh, Public: true},
		{Method: http.MethodPost, Path: "/auth/logout", Handler: h.Auth.Logout},
		{Method: http.MethodGet, Path: "/auth/profile", Handler: h.Auth.Profile},
		{Method: http.MethodPost, Path: "/auth/change-password", Handler: h.Auth.ChangePassword},
		{Method: http.MethodPost, Path: "/auth/reset-code", Handler: h.Auth.SendResetCode, Public: true, Limited: true},
		{Method: http.MethodPost, Path: "/auth/reset-password", Handler: h.Auth.ResetPassword, Public: true, Limited: true},

		// 用户
		{Method: http.MethodPost, Path: "/users/register", Handler: h.User.Register, Public: true, Limited: true},
		{Method: http.MethodPost, Path: "/users", Handler: h.User.Create, Admin: true},
		{Method: http.MethodGet, Path: "/users", Handler: h.User.List, Admin: true},
		{Method: http.MethodGet, Path: "/users/:id", Handler: h.User.Get, Public: true},
		{Method: http.MethodPatch, Path: "/users/:id", Handler: h.User.Update, Admin: true},
		{Method: http.MethodDelete, Path: "/users/:id", Handler: h.User.Delete, Admin: true},
		{Method: http.MethodPost, Path: "/users/:id/role", Handler: h.User.UpdateRole, Admin: true},
		{Method: http.MethodGet, Path: "/users/:id/stats", Handler: h.User.Stats, Public: true},
		{Method: http.MethodGet, Path: "/users/:id/following", Handler: h.User.Following, Public: true},
		{Method: http.MethodGet, Path: "/users/:id/followers", Handler: h.User.Followers, Public: true},
		{Method: http.MethodGet, Path: "/users/:id/liked-articles", Handler: h.User.LikedArticles, Public: true},
		{Method: http.MethodGet, Path: "/users/:id/favorite-articles", Handler: h.User.FavoriteArticles, Public: true},

		// 文章
		{Method: http.MethodPost, Path: "/articles", Handler: h.Article.Create},
		{Method: http.MethodGet, Path: "/articles", Handler: h.Article.Paginate},
		{Method: http.MethodGet, Path: "/articles/search", Handler: h.Article.Search},
		{Method: http.MethodGet, Path: "/articles/all", Handler: h.Article.PublicList, Public: true},
		{Method: http.MethodGet, Path: "/articles/timeline", Handler: h.Article.Timeline, Public: true},
		{Method: http.MethodGet, Path: "/articles/stats", Handler: h.Article.Stats, Admin: true},
		{Method: http.MethodGet, Path: "/articles/item/:id", Handler: h.Article.Detail, Public: true},
		{Method: http.MethodGet, Path: "/articles/user/:userId", Handler: h.Article.ListByUser, Public: true},
		{Method: http.MethodPut, Path: "/articles/:id", Handler: h.Article.Update},
		{Method: http.MethodDelete, Path: "/articles/:id", Handler: h.Article.Delete},

		// 互动
		{Method: http.MethodGet, Path: "/articles-user/:articleId/interaction", Handler: h.Interaction.Status},
		{Method: http.MethodPost, Path: "/articles-user/follow-author", Handler: h.Interaction.FollowAuthor},
		{Method: http.MethodPost, Path: "/articles-user/like-article", Handler: h.Interaction.LikeArticle},
		{Method: http.MethodPost, Path: "/articles-user/favorite-article", Handler: h.Interaction.FavoriteArticle},

		// 评论
		{Method: http.MethodPost, Path: "/comments", Handler: h.Comment.Create},
		{Method: http.MethodGet, Path: "/comments", Handler: h.Comment.List, Public: true},
		{Method: http.MethodDelete, Path: "/comments/:id", Handler: h.Comment.Delete},
		{Method: http.MethodPost, Path: "/comments-web", Handler: h.Comment.CreateGuest, Public: true, Limited: true},
		{Method: http.MethodGet, Path: "/comments-web", Handler: h.Comment.GuestPage, Public: true},

		// 通知
		{Method: http.MethodGet, Path: "/notifications", Handler: h.Notification.List},
		{Method: http.MethodGet, Path: "/notifications/info/:userId", Handler: h.Notification.Info},
		{Method: http.MethodPatch, Path: "/notifications/:id/read", Handler: h.Notification.MarkRead},
		{Method: http.MethodPost, Path: "/notifications/read-all", Handler: h.Notification.MarkAllRead},

		// 角色
		{Method: http.MethodPost, Path: "/roles", Handler: h.Role.Create, Admin: true},
		{Method: http.MethodGet, Path: "/roles", Handler: h.Role.List, Admin: true},
		{Method: http.MethodGet, Path: "/roles/:id", Handler: h.Role.Get, Admin: true},
		{Method: http.MethodPut, Path: "/roles/:id", Handler: h.Role.Update, Admin: true},
		{Method: http.MethodDelete, Path: "/roles/:id", Handler: h.Role.Delete, Admin: true},
		{Method: http.MethodGet, Path: "/roles/:id/users", Handler: h.Role.Users, Admin: true},
		{Method: http.MethodGet, Path: "/roles/:id/permissions", Handler: h.Role.Permissions, Admin: true},
		{Method: http.MethodPut, Path: "/roles/:id/permissions", Handler: h.Role.SetPermissions, Admin: true},
		{Method: http.MethodGet, Path: "/roles/:id/menus", Handler: h.Role.MenuIDs, Admin: true},
		{Method: http.MethodPut, Path: "/roles/:id/menus", Handler: h.Role.SetMenus, Admin: true},

		// 权限
		{Method: http.MethodPost, Path: "/permissions", Handler: h.Permission.Create, Admin: true},
		{Method: http.MethodGet, Path: "/permissions", Handler: h.Permission.List, Admin: true},
		{Method: http.MethodGet, Path: "/permissions/:id", Handler: h.Permission.Get, Admin: true},
		{Method: http.MethodPatch, Path: "/permissions/:id", Handler: h.Permission.Update, Admin: true},
		{Method: http.MethodDelete, Path: "/permissions/:id", Handler: h.Permission.Delete, Admin: true},
		{Method: http.MethodPost, Path: "/permissions/batch-delete", Handler: h.Permission.BatchDelete, Admin: true},

		// 菜单
		{Method: http.MethodPost, Path: "/menu", Handler: h.Menu.Create, Admin: true},
		{Method: http.MethodGet, Path: "/menu", Handler: h.Menu.Page, Admin: true},
		{Method: http.MethodGet, Path: "/menu/tree", Handler: h.Menu.Tree, Admin: true},
		{Method: http.MethodGet, Path: "/menu/user/menus", Handler: h.Menu.UserMenus},
		{Method: http.MethodGet, Path: "/menu/user/buttons", Handler: h.Menu.UserButtons},
		{Method: http.MethodGet, Path: "/menu/:id", Handler: h.Menu.Get, Admin: true},
		{Method: http.MethodPut, Path: "/menu/:id", Handler: h.Menu.Update, Admin: true},
		{Method: http.MethodDelete, Path: "/menu/:id", Handler: h.Menu.Delete, Admin: true},

		// 日记与留言
		{Method: http.MethodPost, Path: "/diaries", Handler: h.Content.CreateDiary, Public: true, Limited: true},
		{Method: http.MethodGet, Path: "/diaries", Handler: h.Content.DiariesByDay, Public: true},
		{Method: http.MethodGet, Path: "/diaries/month", Handler: h.Content.DiaryMonth, Public: true},
		{Method: http.MethodDelete, Path: "/diaries/:id", Handler: h.Content.DeleteDiary, Admin: true},
		{Method: http.MethodPost, Path: "/messages", Handler: h.Content.PostMessage, Public: true, Limited: true},
		{Method: http.MethodGet, Path: "/messages", Handler: h.Content.Messages, Public: true},

		// 友链
		{Method: http.MethodGet, Path: "/links", Handler: h.Content.Links, Public: true},
		{Method: http.MethodPost, Path: "/links", Handler: h.Content.CreateLink, Admin: true},
		{Method: http.MethodPut, Path: "/links/:id", Handler: h.Content.UpdateLink, Admin: true},
		{Method: http.MethodDelete, Path: "/links/:id", Handler: h.Content.DeleteLink, Admin: true},

		// 字典
		{Method: http.MethodPost, Path: "/dicts", Handler: h.Content.CreateDict, Admin: true},
		{Method: http.MethodGet, Path: "/dicts", Handler: h.Content.Dicts, Admin: true},
		{Method: http.MethodGet, Path: "/dicts/type/:type", Handler: h.Content.DictEntries, Public: true},
		{Method: http.MethodPut, Path: "/dicts/:id", Handler: h.Content.UpdateDict, Admin: true},
		{Method: http.MethodDelete, Path: "/dicts/:id", Handler: h.Content.DeleteDict, Admin: true},

		// 图片与上传
		{Method: http.MethodPost, Path: "/images", Handler: h.Media.UploadImages},
		{Method: http.MethodGet, Path: "/images", Handler: h.Media.Images},
		{Method: http.MethodDelete, Path: "/images/:id", Handler: h.Media.DeleteImage},
		{Method: http.MethodPost, Path: "/upload/localhost", Handler: h.Media.Upload, Public: true, Limited: true},

		// 访问量
		{Method: http.MethodPost, Path: "/visit", Handler: h.Content.Visit, Public: true},
		{Method: http.MethodGet, Path: "/visit", Handler: h.Content.VisitSummary, Public: true},
	}
}

// PublicSet 以 "METHOD /api/path" 为键的公开路由集合
func PublicSet(routes []Route) map[string]bool {
	set := make(map[string]bool)
	for _, r := range routes {
		if r.Public {
			set[r.Method+" "+APIPrefix+r.Path] = true
		}
	}
	return set
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(d.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	// 身份来自 userId 查询参数，不经过鉴权中间件
	r.GET("/ws/notifications", d.Handlers.WS.Notifications)

	routes := Routes(d.Handlers)
	public := PublicSet(routes)
	api := r.Group(APIPrefix)
	api.Use(middleware.Auth(d.Tokens, func(method, fullPath string) bool {
		return public[method+" "+fullPath]
	}))

	limit := middleware.RateLimit(d.Limiter, "api", int64(d.RateLimitMax), d.RateLimitWindow)
	admin := middleware.RequireRole(d.Tokens, "admin")
	for _, rt := range routes {
		chain := make([]gin.HandlerFunc, 0, 3)
		if rt.Limited {
			chain = append(chain, limit)
		}
		if rt.Admin {
			chain = append(chain, admin)
		}
		chain = append(chain, rt.Handler)
		api.Handle(rt.Method, rt.Path, chain...)
	}
	return r
}
