package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// NtfyConfig points one sink at a single ntfy topic.
type NtfyConfig struct {
	Host     string // e.g. "https://ntfy.example.net"
	Topic    string
	Username string
	Password string
}

// Ntfy publishes over the ntfy HTTP API: the body is the message text,
// everything else travels in headers. Any 2xx status counts as delivered.
type Ntfy struct {
	cfg  NtfyConfig
	http *http.Client
}

func NewNtfy(cfg NtfyConfig) *Ntfy {
	return &Ntfy{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Ntfy) Name() string { return "ntfy" }

func (n *Ntfy) Send(ctx context.Context, msg Message) error {
	u := strings.TrimRight(n.cfg.Host, "/") + "/" + n.cfg.Topic
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(msg.Body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Title", msg.Title)
	req.Header.Set("Priority", msg.Priority.String())
	if len(msg.Tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.Tags, ","))
	}
	if msg.Click != "" {
		req.Header.Set("Click", msg.Click)
	}
	if n.cfg.Username != "" && n.cfg.Password != "" {
		req.SetBasicAuth(n.cfg.Username, n.cfg.Password)
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("post to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ntfy returned %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}
