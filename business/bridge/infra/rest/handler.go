package rest

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/quotemesh/bridgequote/business/bridge/app"
	"github.com/quotemesh/bridgequote/business/bridge/domain"
	"github.com/quotemesh/bridgequote/internal/apperror"
	"github.com/quotemesh/bridgequote/internal/chainindex"
	"github.com/quotemesh/bridgequote/internal/config"
	"github.com/quotemesh/bridgequote/internal/logger"
)

// version reported by the status endpoint.
const version = "1.0.0"

// Handler serves the comparison API.
type Handler struct {
	service *app.CompareService
	cfg     *config.Config
	log     logger.LoggerInterface
}

// NewHandler creates the API handler.
func NewHandler(service *app.CompareService, cfg *config.Config, log logger.LoggerInterface) *Handler {
	return &Handler{service: service, cfg: cfg, log: log}
}

type compareResponse struct {
	Success   bool                 `json:"success"`
	Bridges   []domain.RankedQuote `json:"bridges"`
	Summary   *domain.Summary      `json:"summary,omitempty"`
	Error     string               `json:"error,omitempty"`
	Timestamp string               `json:"timestamp,omitempty"`
}

// Compare handles POST /compare.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var req domain.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, err := h.service.Compare(r.Context(), req)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			writeJSON(w, appErr.StatusCode, compareResponse{
				Success: false,
				Error:   appErr.Message,
			})
			return
		}
		h.log.Error(r.Context(), "compare failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if len(result.Bridges) == 0 {
		// No quotes is a business outcome; keep the 200 so clients can
		// render the empty comparison.
		writeJSON(w, http.StatusOK, compareResponse{
			Success: false,
			Error:   "No providers responded",
			Bridges: []domain.RankedQuote{},
		})
		return
	}

	writeJSON(w, http.StatusOK, compareResponse{
		Success:   true,
		Bridges:   result.Bridges,
		Summary:   &result.Summary,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

type providerStatus struct {
	Status    string `json:"status"`
	Priority  int    `json:"priority"`
	RateLimit string `json:"rateLimit"`
}

type statusResponse struct {
	Status      string                    `json:"status"`
	Version     string                    `json:"version"`
	Environment string                    `json:"environment"`
	Settings    map[string]string         `json:"settings"`
	Providers   map[string]providerStatus `json:"providers"`
	Features    map[string]bool           `json:"features"`
}

// Status handles GET /status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	providers := make(map[string]providerStatus, len(h.cfg.Providers))
	for key, pc := range h.cfg.Providers {
		status := "Active"
		switch {
		case !pc.Enabled:
			status = "Disabled"
		case pc.RequiresAuth && pc.APIKey == "":
			status = "Disabled (no key)"
		}
		providers[strings.ToLower(key)] = providerStatus{
			Status:    status,
			Priority:  pc.Priority,
			RateLimit: rateLimitLabel(pc),
		}
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:      "operational",
		Version:     version,
		Environment: h.cfg.App.Environment,
		Settings: map[string]string{
			"integrator":   h.cfg.Compare.IntegratorName,
			"feeReceiver":  h.cfg.Compare.FeeReceiver,
			"quoteAddress": h.cfg.Compare.QuoteFromAddress,
		},
		Providers: providers,
		Features: map[string]bool{
			"rateLimiting":   true,
			"priorityTiers":  true,
			"referralLinks":  true,
			"debugMode":      true,
			"unavailability": true,
		},
	})
}

type providerEntry struct {
	Name           string `json:"name"`
	Status         string `json:"status"`
	Priority       int    `json:"priority"`
	RequiresAuth   bool   `json:"requiresAuth"`
	AuthConfigured bool   `json:"authConfigured"`
	RateLimit      string `json:"rateLimit"`
}

type providersResponse struct {
	Count     int             `json:"count"`
	Providers []providerEntry `json:"providers"`
}

// Providers handles GET /providers.
func (h *Handler) Providers(w http.ResponseWriter, r *http.Request) {
	entries := make([]providerEntry, 0, len(h.cfg.Providers))
	for key, pc := range h.cfg.Providers {
		if !pc.Enabled {
			continue
		}
		status := "Active"
		if pc.RequiresAuth && pc.APIKey == "" {
			status = "Limited"
		}
		entries = append(entries, providerEntry{
			Name:           key,
			Status:         status,
			Priority:       pc.Priority,
			RequiresAuth:   pc.RequiresAuth,
			AuthConfigured: pc.APIKey != "",
			RateLimit:      rateLimitLabel(pc),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Priority != entries[j].Priority {
			return entries[i].Priority < entries[j].Priority
		}
		return entries[i].Name < entries[j].Name
	})

	writeJSON(w, http.StatusOK, providersResponse{
		Count:     len(entries),
		Providers: entries,
	})
}

// Health handles GET /health with a minimal liveness body.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"supportedChains": len(chainindex.SupportedChainIDs()),
	})
}

func rateLimitLabel(pc config.ProviderConfig) string {
	return fmt.Sprintf("%d req/%s", pc.RateLimit.MaxRequests, pc.RateLimit.Window)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}
