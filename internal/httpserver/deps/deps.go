package deps

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/MrSnakeDoc/horizon/internal/bookmarks"
	"github.com/MrSnakeDoc/horizon/internal/domain"
	"github.com/MrSnakeDoc/horizon/internal/index"
	"github.com/MrSnakeDoc/horizon/internal/logger"
	"github.com/MrSnakeDoc/horizon/internal/store"
)

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time    // for testing, defaults to time.Now
	AllowedHosts    []string            // Host headers allowed on admin routes
	AllowedCIDRS    []string            // IPs allowed on admin routes
	TrustProxy      bool                // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Platforms       []domain.Platform   // enabled platforms, in display order
	Index           *index.MemoryIndex  // in-memory contest index
	Bookmarks       *bookmarks.Service  // bookmark joins over Store and Index
	Store           store.Store         // persistence backend
	Validate        *validator.Validate // request body validation
	RefreshTrigger  chan struct{}       // manual contest refresh
	SolutionTrigger chan struct{}       // manual solutions reload (nil if no reloader runs)
}

// Now returns TimeNow() when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
