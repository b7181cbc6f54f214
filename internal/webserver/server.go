// Package webserver hosts the storefront page, the public API and the
// JWT-protected admin API on a single echo instance.
package webserver

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo-contrib/session"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/talkincode/pedeai/internal/app"
	"github.com/talkincode/pedeai/pkg/metrics"
)

// Context keys used by handlers.
const (
	ContextAppKey       = "appCtx"
	ContextSessionIDKey = "session_id"
)

const sessionCookieName = "pedeai_session"

type routeEntry struct {
	method  string
	path    string
	handler echo.HandlerFunc
}

var (
	apiRoutes   []routeEntry
	adminRoutes []routeEntry
	pageRoutes  []routeEntry
	loginRoute  echo.HandlerFunc
)

// ApiGET registers a public API route under /api.
func ApiGET(path string, h echo.HandlerFunc) {
	apiRoutes = append(apiRoutes, routeEntry{http.MethodGet, path, h})
}

func ApiPOST(path string, h echo.HandlerFunc) {
	apiRoutes = append(apiRoutes, routeEntry{http.MethodPost, path, h})
}

func ApiPUT(path string, h echo.HandlerFunc) {
	apiRoutes = append(apiRoutes, routeEntry{http.MethodPut, path, h})
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	apiRoutes = append(apiRoutes, routeEntry{http.MethodDelete, path, h})
}

// AdminGET registers a JWT-protected route under /admin/api.
func AdminGET(path string, h echo.HandlerFunc) {
	adminRoutes = append(adminRoutes, routeEntry{http.MethodGet, path, h})
}

func AdminPOST(path string, h echo.HandlerFunc) {
	adminRoutes = append(adminRoutes, routeEntry{http.MethodPost, path, h})
}

func AdminPUT(path string, h echo.HandlerFunc) {
	adminRoutes = append(adminRoutes, routeEntry{http.MethodPut, path, h})
}

func AdminDELETE(path string, h echo.HandlerFunc) {
	adminRoutes = append(adminRoutes, routeEntry{http.MethodDelete, path, h})
}

// PageGET registers a server-rendered page route at the root.
func PageGET(path string, h echo.HandlerFunc) {
	pageRoutes = append(pageRoutes, routeEntry{http.MethodGet, path, h})
}

// SetLoginHandler registers the unauthenticated admin login endpoint.
func SetLoginHandler(h echo.HandlerFunc) {
	loginRoute = h
}

// WebServer wraps the echo instance and its dependencies.
type WebServer struct {
	appCtx app.AppContext
	root   *echo.Echo
}

func NewWebServer(appCtx app.AppContext) *WebServer {
	s := &WebServer{appCtx: appCtx, root: echo.New()}
	s.init()
	return s
}

func (s *WebServer) init() {
	e := s.root
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = newTemplateRenderer()
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(s.appCtx.Config().Web.Secret))))
	e.Use(s.sessionMiddleware)
	e.Use(s.loggingMiddleware)

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextAppKey, s.appCtx)
			return next(c)
		}
	})

	for _, r := range pageRoutes {
		e.Add(r.method, r.path, r.handler)
	}

	api := e.Group("/api")
	for _, r := range apiRoutes {
		api.Add(r.method, r.path, r.handler)
	}

	if loginRoute != nil {
		e.POST("/admin/login", loginRoute)
	}

	admin := e.Group("/admin/api")
	admin.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(s.appCtx.Config().Web.Secret),
	}))
	for _, r := range adminRoutes {
		admin.Add(r.method, r.path, r.handler)
	}
}

// sessionMiddleware guarantees a stable session id for every visitor. The
// id lives in a year-long cookie session and keys the server-side cart.
func (s *WebServer) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// a corrupted cookie still yields a fresh session alongside the error
		sess, _ := session.Get(sessionCookieName, c)
		sid, _ := sess.Values[ContextSessionIDKey].(string)
		if sid == "" {
			sid = uuid.NewString()
			sess.Values[ContextSessionIDKey] = sid
			sess.Options = &sessions.Options{
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			}
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				zap.L().Warn("session save failed", zap.Error(err))
			}
		}
		c.Set(ContextSessionIDKey, sid)
		return next(c)
	}
}

func (s *WebServer) loggingMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		metrics.RecordCounter(metrics.MetricHTTPRequests)
		zap.L().Debug("http request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}

func (s *WebServer) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}

	if strings.HasPrefix(c.Request().URL.Path, "/api") ||
		strings.HasPrefix(c.Request().URL.Path, "/admin") {
		_ = c.JSON(code, map[string]interface{}{
			"code":    code,
			"message": message,
		})
		return
	}
	_ = c.String(code, message)
}

// Start runs the server until it fails or is shut down.
func (s *WebServer) Start() error {
	cfg := s.appCtx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.L().Info("starting web server", zap.String("addr", addr))
	return s.root.Start(addr)
}

// Echo exposes the underlying instance for tests.
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}
