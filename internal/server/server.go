package server

import (
	"net/http"

	"commerce-console/internal/handler"
	appmiddleware "commerce-console/internal/middleware"
	"commerce-console/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo            *echo.Echo
	sessionHandler  *handler.SessionHandler
	catalogHandler  *handler.CatalogHandler
	checkoutHandler *handler.CheckoutHandler
	orderHandler    *handler.OrderHandler
	sessions        *session.Store
}

func NewServer(
	sessionHandler *handler.SessionHandler,
	catalogHandler *handler.CatalogHandler,
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
	sessions *session.Store,
	log *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Error(v.Error))
			return nil
		},
	}))

	s := &Server{
		echo:            e,
		sessionHandler:  sessionHandler,
		catalogHandler:  catalogHandler,
		checkoutHandler: checkoutHandler,
		orderHandler:    orderHandler,
		sessions:        sessions,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/session/login", s.sessionHandler.Login)
	api.POST("/session/logout", s.sessionHandler.Logout)

	authed := api.Group("", appmiddleware.RequireSession(s.sessions))
	authed.GET("/session", s.sessionHandler.Current)

	authed.GET("/products/:id", s.catalogHandler.GetProduct)

	// -------- checkout --------
	authed.POST("/checkout/validate", s.checkoutHandler.Validate)
	authed.POST("/checkout", s.checkoutHandler.Submit)

	// -------- orders / payment --------
	authed.GET("/orders/:id", s.orderHandler.GetOrder)
	authed.POST("/orders/:id/payment/attempt", s.orderHandler.BeginPayment)
	authed.POST("/orders/:id/payment/confirm", s.orderHandler.ConfirmPayment)
}

func (s *Server) Start(address string) error {
	err := s.echo.Start(address)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
