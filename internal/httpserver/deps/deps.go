package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/verse/internal/catalog"
	"github.com/MrSnakeDoc/verse/internal/dispatch"
	"github.com/MrSnakeDoc/verse/internal/httpserver/mw"
	"github.com/MrSnakeDoc/verse/internal/logger"
	"github.com/MrSnakeDoc/verse/internal/metrics"
)

// StorePinger is the part of the XML store client the ops endpoints need.
type StorePinger interface {
	Ping(ctx context.Context) error
	BaseURL() string
}

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	AllowedHosts  []string             // Host headers allowed to call /reload
	AllowedCIDRS  []string             // IPs allowed to access the ops endpoints
	TrustProxy    bool                 // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Dispatcher    *dispatch.Dispatcher // resolves updates into replies
	Store         StorePinger           // remote XML store, pinged by /readyz and /infra
	Catalog       *catalog.Catalog     // active message catalogue
	Limiter       mw.Limiter           // per-client limiter of the /api routes
	LimiterMode   string               // "memory" | "redis"
	Metrics       *metrics.Metrics     // nil disables recording
	ReloadTrigger chan struct{}        // Channel to trigger manual catalogue reload (nil if no messages file)
}
