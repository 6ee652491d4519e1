package routes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"web3_tools/internal/config"
	"web3_tools/internal/entities"

	"github.com/gofiber/fiber/v2"
)

func (s *Server) banner(c *fiber.Ctx) error {
	priceExample := "/tools/price?symbol=" + s.market.DefaultPriceQuery()
	if s.market.PriceSource() == config.ProviderCoinGecko {
		priceExample = "/tools/price?coin=" + s.market.DefaultPriceQuery()
	}
	return c.JSON(entities.Banner{
		Status:  "running",
		Message: "Web3 MCP tool server is live",
		Endpoints: []string{
			"/tools/ping",
			priceExample,
			"/tools/global",
			"/tools/trending",
			fmt.Sprintf("/tools/news?limit=%d", s.news.DefaultLimit()),
			fmt.Sprintf("/tools/wallet-tx?address=<address>&limit=%d", s.wallet.DefaultLimit()),
		},
	})
}

func (s *Server) ping(c *fiber.Ctx) error {
	return c.JSON(entities.Pong{Status: "ok", Message: "pong"})
}

func (s *Server) price(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("symbol"))
	if query == "" {
		query = strings.TrimSpace(c.Query("coin"))
	}
	quote, err := s.market.Price(c.UserContext(), query)
	return s.respond(c, "price", quote, err)
}

func (s *Server) globalMarket(c *fiber.Ctx) error {
	snap, err := s.market.GlobalMarket(c.UserContext())
	return s.respond(c, "global", snap, err)
}

func (s *Server) trending(c *fiber.Ctx) error {
	list, err := s.market.Trending(c.UserContext())
	return s.respond(c, "trending", list, err)
}

func (s *Server) headlines(c *fiber.Ctx) error {
	limit, err := parseLimit(c, s.news.DefaultLimit())
	if err != nil {
		return s.badRequest(c, "news", err)
	}
	feed, err := s.news.Headlines(c.UserContext(), limit)
	return s.respond(c, "news", feed, err)
}

func (s *Server) walletTransactions(c *fiber.Ctx) error {
	address := strings.TrimSpace(c.Query("address"))
	if address == "" {
		return s.badRequest(c, "wallet-tx", errors.New("address query parameter is required"))
	}
	limit, err := parseLimit(c, s.wallet.DefaultLimit())
	if err != nil {
		return s.badRequest(c, "wallet-tx", err)
	}
	history, err := s.wallet.Transactions(c.UserContext(), address, limit)
	return s.respond(c, "wallet-tx", history, err)
}

// respond writes either the result or the classified error, both with status 200.
func (s *Server) respond(c *fiber.Ctx, tool string, result any, err error) error {
	if err != nil {
		var toolErr *entities.ToolError
		if !errors.As(err, &toolErr) {
			toolErr = entities.NewToolError(entities.CodeRequestFailed, err.Error())
		}
		s.metrics.ObserveTool(tool, entities.StatusError)
		return c.JSON(toolErr.Payload())
	}
	s.metrics.ObserveTool(tool, entities.StatusSuccess)
	return c.JSON(result)
}

func (s *Server) badRequest(c *fiber.Ctx, tool string, err error) error {
	s.metrics.ObserveTool(tool, entities.StatusError)
	return c.Status(fiber.StatusBadRequest).
		JSON(entities.NewToolError(entities.CodeInvalidRequest, err.Error()).Payload())
}

func parseLimit(c *fiber.Ctx, def int) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > entities.MaxLimit {
		return 0, fmt.Errorf("limit must be an integer between 1 and %d, got %q", entities.MaxLimit, raw)
	}
	return limit, nil
}
