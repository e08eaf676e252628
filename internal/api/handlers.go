package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/parlay-forge/internal/models"
	"github.com/yourusername/parlay-forge/internal/service"
	"github.com/yourusername/parlay-forge/internal/stream"
)

const defaultBetListLimit = 50

type userRequest struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleForge(c *gin.Context) {
	var req service.ForgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	result, err := s.forge.Forge(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrUserIDRequired) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	s.hub.Publish(stream.Update{Type: "blueprints", UserID: req.UserID, Payload: result})
	ok(c, result)
}

func (s *Server) handlePlaceBet(c *gin.Context) {
	var req service.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	bet, err := s.forge.PlaceBet(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserIDRequired),
			errors.Is(err, models.ErrNoLegs),
			errors.Is(err, models.ErrInvalidStake):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, models.ErrNotFound):
			fail(c, http.StatusNotFound, "blueprint not found")
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	s.hub.Publish(stream.Update{Type: "bet_placed", UserID: bet.UserID, Payload: bet})
	ok(c, bet)
}

func (s *Server) handleListBets(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		fail(c, http.StatusBadRequest, "user_id required")
		return
	}

	limit := defaultBetListLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			fail(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	bets, err := s.bets.GetByUser(c.Request.Context(), userID, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if bets == nil {
		bets = []*models.ParlayBet{}
	}
	ok(c, bets)
}

func (s *Server) handleGetBet(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, http.StatusBadRequest, models.ErrInvalidID.Error())
		return
	}

	bet, err := s.bets.GetByID(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		fail(c, http.StatusNotFound, "bet not found")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, bet)
}

func (s *Server) handleListBlueprints(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))
	if userID == "" {
		fail(c, http.StatusBadRequest, "user_id required")
		return
	}

	blueprints, err := s.blueprints.GetByUser(c.Request.Context(), userID, defaultBetListLimit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if blueprints == nil {
		blueprints = []*models.Blueprint{}
	}
	ok(c, blueprints)
}

func (s *Server) handleSettleBets(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		fail(c, http.StatusBadRequest, "user_id required")
		return
	}

	summary, err := s.settler.SettleUserBets(c.Request.Context(), req.UserID)
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}

	if summary.Settled > 0 {
		s.hub.Publish(stream.Update{Type: "settlement", UserID: req.UserID, Payload: summary})
	}
	ok(c, summary)
}

func (s *Server) handleOdds(c *gin.Context) {
	events, err := s.odds.Events(c.Request.Context())
	if err != nil {
		fail(c, http.StatusBadGateway, err.Error())
		return
	}
	ok(c, events)
}

func (s *Server) handleInsights(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}

	insights, err := s.insights.GetInsights(c.Request.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, models.ErrUserIDRequired) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	ok(c, insights)
}

func (s *Server) handleStats(c *gin.Context) {
	userID := strings.TrimSpace(c.Query("user_id"))

	stats, err := s.stats.GetUserStats(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, models.ErrUserIDRequired) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	streak, err := s.stats.GetStreak(c.Request.Context(), userID)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	ok(c, gin.H{"stats": stats, "streak": streak})
}

func (s *Server) handleStrategies(c *gin.Context) {
	ok(c, models.DefaultStrategyPresets())
}
