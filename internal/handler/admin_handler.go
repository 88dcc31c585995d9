package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rrishiddh/portfolio-project-backend/internal/apperror"
	"github.com/rrishiddh/portfolio-project-backend/internal/middleware"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
)

// IPBanStore is the rate limiter's ban list.
type IPBanStore interface {
	BanIP(ctx context.Context, ip string) error
	UnbanIP(ctx context.Context, ip string) error
	BannedIPs(ctx context.Context) ([]string, error)
}

type AdminHandler struct {
	bans IPBanStore
}

func NewAdminHandler(bans IPBanStore) *AdminHandler {
	return &AdminHandler{bans: bans}
}

type BanIPRequest struct {
	IP     string `json:"ip"`
	Reason string `json:"reason"`
}

func (r BanIPRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IP, validation.Required.Error("IP is required"), is.IP.Error("Invalid IP address")),
		validation.Field(&r.Reason, validation.Length(0, 200).Error("Reason must be less than 200 characters")),
	)
}

// ListBans returns every banned IP address.
// GET /api/admin/ip-bans
func (h *AdminHandler) ListBans(c *gin.Context) {
	ips, err := h.bans.BannedIPs(c.Request.Context())
	if err != nil {
		logger.Log.Error("Failed to list banned IPs", zap.Error(err))
		_ = c.Error(err)
		return
	}
	if ips == nil {
		ips = []string{}
	}

	respond(c, http.StatusOK, "", gin.H{"ips": ips})
}

// BanIP blocks an address from the whole API.
// POST /api/admin/ip-bans
func (h *AdminHandler) BanIP(c *gin.Context) {
	var req BanIPRequest
	if !bindJSON(c, &req) {
		return
	}
	req.IP = strings.TrimSpace(req.IP)
	if err := req.Validate(); err != nil {
		_ = c.Error(apperror.ValidationWithDetails(err.Error(), err))
		return
	}

	adminID := middleware.CurrentIdentity(c).UserID
	if req.IP == c.ClientIP() {
		_ = c.Error(apperror.Validation("Cannot ban your own IP address"))
		return
	}

	if err := h.bans.BanIP(c.Request.Context(), req.IP); err != nil {
		logger.Log.Error("Failed to ban IP", zap.String("ip", req.IP), zap.Error(err))
		_ = c.Error(err)
		return
	}

	logger.Log.Info("Admin banned IP",
		zap.String("admin_id", adminID),
		zap.String("ip", req.IP),
		zap.String("reason", req.Reason),
	)

	respond(c, http.StatusOK, "IP banned successfully", nil)
}

// UnbanIP lifts a ban.
// DELETE /api/admin/ip-bans/:ip
func (h *AdminHandler) UnbanIP(c *gin.Context) {
	ip := strings.TrimSpace(c.Param("ip"))
	if err := validation.Validate(ip, is.IP); err != nil {
		_ = c.Error(apperror.Validation("Invalid IP address"))
		return
	}

	if err := h.bans.UnbanIP(c.Request.Context(), ip); err != nil {
		logger.Log.Error("Failed to unban IP", zap.String("ip", ip), zap.Error(err))
		_ = c.Error(err)
		return
	}

	logger.Log.Info("Admin unbanned IP",
		zap.String("admin_id", middleware.CurrentIdentity(c).UserID),
		zap.String("ip", ip),
	)

	respond(c, http.StatusOK, "IP unbanned successfully", nil)
}
