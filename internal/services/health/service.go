package health

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brew-backend/internal/shared/server/respond"
)

// Catalog sources reported by Status.
const (
	CatalogSourceMemory   = "memory"
	CatalogSourcePostgres = "postgres"
)

// Availability reports whether AI generation may be attempted.
type Availability interface {
	IsAvailable() bool
}

// BreakerState reports the AI circuit breaker state.
type BreakerState interface {
	State() string
}

// Status is the health payload.
type Status struct {
	OK            bool   `json:"ok"`
	AIAvailable   bool   `json:"aiAvailable"`
	AIBreaker     string `json:"aiBreaker,omitempty"`
	CatalogSource string `json:"catalogSource"`
}

// Service encapsulates health-related checks.
type Service struct {
	ai            Availability
	catalogSource string
}

// NewService constructs a new health service. ai may be nil.
func NewService(ai Availability, catalogSource string) *Service {
	if catalogSource == "" {
		catalogSource = CatalogSourceMemory
	}
	return &Service{ai: ai, catalogSource: catalogSource}
}

// Status returns the current health payload. It performs no network calls.
func (s *Service) Status() Status {
	st := Status{OK: true, CatalogSource: s.catalogSource}
	if s.ai != nil {
		st.AIAvailable = s.ai.IsAvailable()
		if b, ok := s.ai.(BreakerState); ok {
			st.AIBreaker = b.State()
		}
	}
	return st
}

// RegisterRoutes attaches GET /health to the group.
func (s *Service) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, s.Status())
	})
}
