package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	"streamwatch/internal/structures"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

var ErrUnknownChannel = errors.New("platform: unknown channel")

// StatusProviderInterface reports the current live status of one channel.
// An offline channel still carries its configured title and category.
type StatusProviderInterface interface {
	GetStatus(ctx context.Context, channel models.MonitoredChannel) (models.StreamState, error)
}

type helixPage[T any] struct {
	Data []T `json:"data"`
}

type helixUser struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

type helixStream struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	GameName string `json:"game_name"`
}

type helixChannel struct {
	Title    string `json:"title"`
	GameName string `json:"game_name"`
}

type TwitchProvider struct {
	baseURL  string
	clientID string
	client   *http.Client
	limiter  *rate.Limiter
	logger   providers.Logger

	mu      sync.RWMutex
	userIDs map[string]string
}

// NewTwitchProvider builds a Helix client authenticated with an app access
// token. Every request waits on a limiter sized from requestsPerMinute.
func NewTwitchProvider(conf *structures.Config, logger providers.Logger) StatusProviderInterface {
	cc := &clientcredentials.Config{
		ClientID:     conf.Platform.ClientID,
		ClientSecret: conf.Platform.ClientSecret,
		TokenURL:     conf.Platform.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	base := &http.Client{Timeout: conf.Platform.Timeout}
	client := cc.Client(context.WithValue(context.Background(), oauth2.HTTPClient, base))
	client.Timeout = conf.Platform.Timeout

	return newTwitchProvider(conf.Platform.BaseURL, conf.Platform.ClientID, client, newLimiter(conf.Platform.RequestsPerMinute), logger)
}

func newTwitchProvider(baseURL, clientID string, client *http.Client, limiter *rate.Limiter, logger providers.Logger) *TwitchProvider {
	return &TwitchProvider{
		baseURL:  strings.TrimRight(baseURL, "/"),
		clientID: clientID,
		client:   client,
		limiter:  limiter,
		logger:   logger,
		userIDs:  make(map[string]string),
	}
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := perMinute / 60
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60), burst)
}

func (p *TwitchProvider) GetStatus(ctx context.Context, channel models.MonitoredChannel) (models.StreamState, error) {
	userID, err := p.userID(ctx, channel.TwitchLogin)
	if err != nil {
		return models.StreamState{}, err
	}

	var streams helixPage[helixStream]
	if err := p.get(ctx, "/streams", url.Values{"user_id": {userID}}, &streams); err != nil {
		return models.StreamState{}, err
	}
	for _, s := range streams.Data {
		if s.Type == "live" {
			return models.StreamState{Online: true, Title: s.Title, Category: s.GameName}, nil
		}
	}

	var channels helixPage[helixChannel]
	if err := p.get(ctx, "/channels", url.Values{"broadcaster_id": {userID}}, &channels); err != nil {
		return models.StreamState{}, err
	}
	if len(channels.Data) == 0 {
		return models.StreamState{}, fmt.Errorf("%s: %w", channel.TwitchLogin, ErrUnknownChannel)
	}
	return models.StreamState{Title: channels.Data[0].Title, Category: channels.Data[0].GameName}, nil
}

// userID resolves a login once and remembers it for the process lifetime.
func (p *TwitchProvider) userID(ctx context.Context, login string) (string, error) {
	p.mu.RLock()
	id, ok := p.userIDs[login]
	p.mu.RUnlock()
	if ok {
		return id, nil
	}

	var users helixPage[helixUser]
	if err := p.get(ctx, "/users", url.Values{"login": {login}}, &users); err != nil {
		return "", err
	}
	if len(users.Data) == 0 || users.Data[0].ID == "" {
		return "", fmt.Errorf("%s: %w", login, ErrUnknownChannel)
	}

	id = users.Data[0].ID
	p.mu.Lock()
	p.userIDs[login] = id
	p.mu.Unlock()
	p.logger.Debugf(providers.TypeWatch, "Resolved %s to user id %s", login, id)
	return id, nil
}

func (p *TwitchProvider) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Client-Id", p.clientID)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("helix %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("helix %s: unexpected status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("helix %s: decode: %w", path, err)
	}
	return nil
}
