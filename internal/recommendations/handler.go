package recommendations

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"brew-backend/internal/catalog"
	"brew-backend/internal/shared/server/middleware"
	"brew-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the recommendation service.
type Handler struct {
	Svc     *Service
	Catalog catalog.Repo
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, repo catalog.Repo) *Handler {
	return &Handler{Svc: svc, Catalog: repo}
}

// RegisterRoutes attaches recommendation and catalog routes to the group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.recommend)
	rg.GET("/beans", h.listBeans)
	rg.GET("/machines", h.listMachines)
}

func (h *Handler) recommend(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindWith(&req, strictJSON{}); err != nil {
		respond.Error(c, http.StatusInternalServerError, MessageInternal, err)
		return
	}
	c.Set(middleware.BeanIDKey, req.BeanID)
	c.Set(middleware.MachineIDKey, req.MachineID)

	out, err := h.Svc.Resolve(c.Request.Context(), req.BeanID, req.MachineID)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidSelection):
			respond.Error(c, http.StatusBadRequest, MessageInvalidSelection, err)
		default:
			respond.Error(c, http.StatusInternalServerError, MessageInternal, err)
		}
		return
	}

	c.Set(middleware.FallbackUsedKey, out.FallbackUsed)
	respond.OK(c, out.Response)
}

// maxRequestBytes caps a recommendation body; two short ids fit many
// times over.
const maxRequestBytes = 64 << 10

var errBodyTooLarge = errors.New("request body too large")

// strictJSON binds a single JSON value. Unlike binding.JSON it rejects an
// empty body and anything trailing the value.
type strictJSON struct{}

func (strictJSON) Name() string { return "json" }

func (strictJSON) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return io.ErrUnexpectedEOF
	}
	body, err := io.ReadAll(io.LimitReader(req.Body, maxRequestBytes+1))
	if err != nil {
		return err
	}
	if len(body) > maxRequestBytes {
		return errBodyTooLarge
	}
	if err := json.Unmarshal(body, obj); err != nil {
		return err
	}
	if binding.Validator == nil {
		return nil
	}
	return binding.Validator.ValidateStruct(obj)
}

func (h *Handler) listBeans(c *gin.Context) {
	beans, err := h.Catalog.ListBeans(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, MessageInternal, err)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": beans})
}

func (h *Handler) listMachines(c *gin.Context) {
	machines, err := h.Catalog.ListMachines(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, MessageInternal, err)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": machines})
}
