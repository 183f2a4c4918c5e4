package controllers

import (
	"context"
	"net/http"
	"net/url"
	"streamwatch/internal/providers"
	"streamwatch/internal/services"
	"streamwatch/internal/structures"
	"time"

	json "github.com/goccy/go-json"
	"nhooyr.io/websocket"
)

const liveWriteTimeout = 5 * time.Second

type StreamsController struct {
	logger  providers.Logger
	service services.StreamServiceInterface
	feed    services.FeedServiceInterface
	cache   providers.CacheProviderInterface
	accept  *websocket.AcceptOptions
}

func NewStreamsController(conf *structures.Config, logger providers.Logger, service services.StreamServiceInterface, feed services.FeedServiceInterface, cache providers.CacheProviderInterface) *StreamsController {
	return &StreamsController{
		logger:  logger,
		service: service,
		feed:    feed,
		cache:   cache,
		accept:  acceptOptions(conf.Cors.AllowOrigins),
	}
}

// acceptOptions turns CORS origins into websocket origin host patterns.
func acceptOptions(origins []string) *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	for _, origin := range origins {
		if origin == "*" {
			opts.InsecureSkipVerify = true
			continue
		}
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			opts.OriginPatterns = append(opts.OriginPatterns, u.Host)
		} else {
			opts.OriginPatterns = append(opts.OriginPatterns, origin)
		}
	}
	return opts
}

// serveFromCacheOrCompute caches the computed response unless a decision
// was persisted while it was being computed; such a response may predate
// the write and would outlive the invalidation.
func (sc *StreamsController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := sc.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	generation := sc.feed.Generation()
	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sc.cache.Set(cacheKey, gson)
	if sc.feed.Generation() != generation {
		sc.cache.Del(cacheKey)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (sc *StreamsController) List(w http.ResponseWriter, r *http.Request) {
	sc.serveFromCacheOrCompute(w, services.StreamsCacheKey, func() (any, error) {
		return sc.service.List(r.Context())
	})
}

// Live upgrades to a websocket. The first message is the current listing
// as an array; every later message is one FeedEvent.
func (sc *StreamsController) Live(w http.ResponseWriter, r *http.Request) {
	// The server read and write timeouts would otherwise cut the
	// hijacked connection.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, sc.accept)
	if err != nil {
		sc.logger.Warnf(providers.TypeGet, "Websocket accept failed: %s", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	events, cancel := sc.feed.Subscribe()
	defer cancel()

	ctx := conn.CloseRead(r.Context())

	views, err := sc.service.List(ctx)
	if err != nil {
		conn.Close(websocket.StatusInternalError, "state unavailable")
		return
	}
	snapshot, err := json.Marshal(views)
	if err != nil || sc.write(ctx, conn, snapshot) != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case data, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "")
				return
			}
			if err := sc.write(ctx, conn, data); err != nil {
				sc.logger.Debugf(providers.TypeGet, "Live feed write failed: %s", err)
				return
			}
		}
	}
}

func (sc *StreamsController) write(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, liveWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
