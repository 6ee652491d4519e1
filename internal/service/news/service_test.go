package news

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"web3_tools/internal/config"
	"web3_tools/internal/entities"
	"web3_tools/internal/logger"
	"web3_tools/internal/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := upstream.NewClient(logger.NewNop(), 100*time.Millisecond)
	return InitService(logger.NewNop(), client, config.NewsConf{FeedURL: srv.URL + "/rss", DefaultLimit: 10})
}

func rssFeed(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom"><channel>
<title>Cointelegraph.com News</title>
<link>https://cointelegraph.com</link>
` + strings.Join(items, "\n") + `
</channel></rss>`
}

func item(i int) string {
	return fmt.Sprintf(`<item><title><![CDATA[ Headline %d ]]></title><link>https://cointelegraph.com/news/%d</link><description>x</description></item>`, i, i)
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var toolErr *entities.ToolError
	require.True(t, errors.As(err, &toolErr), "expected *entities.ToolError, got %v", err)
	assert.Equal(t, code, toolErr.Code)
}

func TestHeadlines_LimitKeepsDocumentOrder(t *testing.T) {
	items := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		items = append(items, item(i))
	}
	s := initTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFeed(items...))
	})

	feed, err := s.Headlines(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, feed.Headlines, 5)
	for i, h := range feed.Headlines {
		assert.Equal(t, fmt.Sprintf("Headline %d", i), h.Title)
		assert.Equal(t, fmt.Sprintf("https://cointelegraph.com/news/%d", i), h.Link)
	}
	assert.Equal(t, "cointelegraph rss", feed.Source)
}

func TestHeadlines_DefaultLimit(t *testing.T) {
	items := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		items = append(items, item(i))
	}
	s := initTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(items...))
	})

	feed, err := s.Headlines(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, feed.Headlines, 10)
}

func TestHeadlines_SkipsIncompleteItems(t *testing.T) {
	s := initTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(
			`<item><title>No link</title></item>`,
			item(1),
			`<item><link>https://example.com/no-title</link></item>`,
			`<item><title>   </title><link>https://example.com/blank</link></item>`,
			item(2),
		))
	})

	feed, err := s.Headlines(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []entities.Headline{
		{Title: "Headline 1", Link: "https://cointelegraph.com/news/1"},
		{Title: "Headline 2", Link: "https://cointelegraph.com/news/2"},
	}, feed.Headlines)
}

func TestHeadlines_HugeLimitIsBounded(t *testing.T) {
	items := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		items = append(items, item(i))
	}
	s := initTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(items...))
	})

	for _, limit := range []int{1_000_000_000, math.MaxInt} {
		feed, err := s.Headlines(context.Background(), limit)
		require.NoError(t, err)
		assert.Len(t, feed.Headlines, 3)
	}
}

func TestHeadlines_SkipsPromoItems(t *testing.T) {
	s := initTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(
			item(1),
			`<item><title>Subscribe to Cointelegraph Markets Pro</title><link>https://cointelegraph.com/pro</link></item>`,
			item(2),
		))
	})

	feed, err := s.Headlines(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, feed.Headlines, 2)
	assert.Equal(t, "Headline 1", feed.Headlines[0].Title)
	assert.Equal(t, "Headline 2", feed.Headlines[1].Title)
}

func TestHeadlines_Latin1Feed(t *testing.T) {
	s := initTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
			"<rss><channel><item><title>Caf\xe9 listing</title><link>https://a/1</link></item></channel></rss>"))
	})

	feed, err := s.Headlines(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, feed.Headlines, 1)
	assert.Equal(t, "Café listing", feed.Headlines[0].Title)
}

func TestHeadlines_EmptyFeed(t *testing.T) {
	s := initTestService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed())
	})

	feed, err := s.Headlines(context.Background(), 3)
	require.NoError(t, err)
	assert.NotNil(t, feed.Headlines)
	assert.Empty(t, feed.Headlines)
}

func TestHeadlines_Errors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		code    string
	}{
		{"malformed xml", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<rss><channel><item><title>broken</channel>`)
		}, entities.CodeRSSParseFailed},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {}, entities.CodeRSSParseFailed},
		{"status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}, "rss_failed"},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}, entities.CodeTimeout},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := initTestService(t, tc.handler)
			_, err := s.Headlines(context.Background(), 5)
			requireCode(t, err, tc.code)
		})
	}
}
