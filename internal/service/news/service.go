package news

import (
	"context"
	"errors"
	"strings"

	"web3_tools/internal/config"
	"web3_tools/internal/entities"
	"web3_tools/internal/logger"
	"web3_tools/internal/upstream"

	"go.uber.org/zap"
)

const (
	provider = "rss"
	source   = "cointelegraph rss"

	promoMarker = "Cointelegraph"
)

type Service struct {
	log          logger.AppLogger
	client       *upstream.Client
	feedURL      string
	defaultLimit int
}

func InitService(log logger.AppLogger, client *upstream.Client, conf config.NewsConf) *Service {
	return &Service{
		log:          log.With(zap.String("service", "news")),
		client:       client,
		feedURL:      conf.FeedURL,
		defaultLimit: conf.DefaultLimit,
	}
}

func (s *Service) DefaultLimit() int {
	return s.defaultLimit
}

// Headlines returns up to limit feed items that carry both a title and a link.
// A non-positive limit falls back to the configured default.
func (s *Service) Headlines(ctx context.Context, limit int) (*entities.NewsFeed, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = min(limit, entities.MaxLimit)
	var items feedItems
	if err := s.client.GetXML(ctx, provider, s.feedURL, &items); err != nil {
		toolErr := classify(err)
		s.log.Info("news lookup failed", zap.String("code", toolErr.Code))
		return nil, toolErr
	}

	headlines := make([]entities.Headline, 0, min(limit, len(items)))
	for _, item := range items {
		if len(headlines) == limit {
			break
		}
		if item.Title == "" || item.Link == "" {
			continue
		}
		// feed level promo entries
		if strings.Contains(item.Title, promoMarker) {
			continue
		}
		headlines = append(headlines, entities.Headline{Title: item.Title, Link: item.Link})
	}
	return &entities.NewsFeed{
		Status:    entities.StatusSuccess,
		Source:    source,
		Headlines: headlines,
	}, nil
}

func classify(err error) *entities.ToolError {
	var upErr *upstream.Error
	if errors.As(err, &upErr) && upErr.Kind == upstream.KindParse {
		return entities.NewToolError(entities.CodeRSSParseFailed, "failed to parse rss feed: "+upErr.Err.Error())
	}
	return upstream.Classify(provider, err)
}
