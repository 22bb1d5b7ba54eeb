package panel

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/queuedesk/queue-backend/internal/core/domain"
	"github.com/queuedesk/queue-backend/internal/core/ports"
)

const defaultTimeout = 5 * time.Second

// Notifier is a secondary adapter that relays call announcements to the
// display panel service over HTTP. It implements ports.PanelNotifier.
//
// The relay is fire and forget: the panel is a convenience display, so a
// failed announcement is logged and dropped rather than surfaced to the
// flow that triggered it.
type Notifier struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

var _ ports.PanelNotifier = (*Notifier)(nil)

// NewNotifier creates a panel notifier. An empty baseURL disables the
// relay; announcements are then logged and dropped.
func NewNotifier(baseURL string, timeout time.Duration, logger *slog.Logger) *Notifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if baseURL == "" {
		logger.Warn("panel relay disabled: no panel URL configured")
	}
	return &Notifier{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("component", "panel_notifier"),
	}
}

// AnnounceCall posts the announcement to the panel's /call endpoint.
func (n *Notifier) AnnounceCall(ctx context.Context, announcement domain.CallAnnouncement) {
	if n.baseURL == "" {
		n.logger.Debug("dropping panel announcement, relay disabled",
			"customer", announcement.Name,
		)
		return
	}

	body, err := json.Marshal(announcement)
	if err != nil {
		n.logger.Error("failed to encode panel announcement", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/call", bytes.NewReader(body))
	if err != nil {
		n.logger.Error("failed to build panel request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error("failed to reach panel service", "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		// Read a bounded slice of the body for the log line.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		n.logger.Error("panel service rejected announcement",
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		return
	}

	n.logger.Info("announced call on panel",
		"customer", announcement.Name,
		"sector", announcement.Sector,
		"service_point", announcement.ServicePoint,
	)
}
