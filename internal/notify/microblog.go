package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"streamwatch/internal/structures"

	"github.com/dghubble/oauth1"
	json "github.com/goccy/go-json"
)

// MicroblogClient publishes short posts with OAuth 1.0a user credentials.
type MicroblogClient struct {
	endpoint string
	client   *http.Client
}

func NewMicroblogClient(conf *structures.Config) *MicroblogClient {
	mc := conf.Notify.Microblog
	config := oauth1.NewConfig(mc.ConsumerKey, mc.ConsumerSecret)
	token := oauth1.NewToken(mc.AccessToken, mc.AccessSecret)
	return &MicroblogClient{
		endpoint: mc.Endpoint,
		client:   config.Client(oauth1.NoContext, token),
	}
}

func (m *MicroblogClient) Post(ctx context.Context, text string) error {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Permanent(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return Transient(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("microblog: status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return Transient(err)
	}
	return Permanent(err)
}
