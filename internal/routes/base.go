package routes

import (
	"errors"
	"time"

	"web3_tools/internal/entities"
	"web3_tools/internal/logger"
	"web3_tools/internal/observability"
	"web3_tools/internal/service/market"
	"web3_tools/internal/service/news"
	"web3_tools/internal/service/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Server struct {
	appAddr    string
	log        logger.AppLogger
	market     *market.Service
	news       *news.Service
	wallet     *wallet.Service
	metrics    *observability.Metrics
	httpEngine *fiber.App
}

// InitAppRouter initializes the HTTP Server.
func InitAppRouter(
	log logger.AppLogger,
	marketService *market.Service,
	newsService *news.Service,
	walletService *wallet.Service,
	metrics *observability.Metrics,
	address string,
) *Server {
	app := &Server{
		appAddr: address,
		market:  marketService,
		news:    newsService,
		wallet:  walletService,
		metrics: metrics,
		log:     log.With(zap.String("service", "http")),
	}
	app.httpEngine = fiber.New(fiber.Config{
		AppName:               "web3-tools",
		DisableStartupMessage: true,
		ErrorHandler:          app.handleError,
	})
	app.httpEngine.Use(recover.New())
	app.httpEngine.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.httpEngine.Use(app.accessLog)
	app.initRoutes()
	return app
}

func (s *Server) initRoutes() {
	s.httpEngine.Get("/", s.banner)
	tools := s.httpEngine.Group("/tools")
	tools.Get("/ping", s.ping)
	tools.Get("/price", s.price)
	tools.Get("/global", s.globalMarket)
	tools.Get("/trending", s.trending)
	tools.Get("/news", s.headlines)
	tools.Get("/wallet-tx", s.walletTransactions)
}

// Run starts the HTTP Server.
func (s *Server) Run() error {
	s.log.Info("Starting HTTP server", zap.String("port", s.appAddr))
	return s.httpEngine.Listen(s.appAddr)
}

func (s *Server) Stop() error {
	return s.httpEngine.Shutdown()
}

func (s *Server) accessLog(c *fiber.Ctx) error {
	started := time.Now()
	err := c.Next()
	s.log.Info("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(started)),
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
	)
	return err
}

// handleError renders framework level failures (unknown route, panics) as json.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.log.Error("request failed", err, zap.String("path", c.Path()))
	}
	return c.Status(code).JSON(entities.NewToolError(entities.CodeRequestFailed, err.Error()).Payload())
}
