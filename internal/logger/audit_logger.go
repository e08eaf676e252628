// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger records the bet lifecycle as a dedicated audit trail.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetPlaced logs a parlay bet placement event.
func (al *AuditLogger) LogBetPlaced(betID, userID, strategy string, legs int, stake, totalOdds float64, placedAt time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":     betID,
		"user_id":    userID,
		"strategy":   strategy,
		"legs":       legs,
		"stake":      stake,
		"total_odds": totalOdds,
		"placed_at":  placedAt.Unix(),
	}).Info("Bet placed")
}

// LogLegResult logs a graded leg result.
func (al *AuditLogger) LogLegResult(betID string, legIndex int, description, result, market string) {
	al.WithFields(logrus.Fields{
		"bet_id":      betID,
		"leg_index":   legIndex,
		"description": description,
		"result":      result,
		"market":      market,
	}).Info("Leg graded")
}

// LogBetSettled logs a terminal bet state transition.
func (al *AuditLogger) LogBetSettled(betID, userID, status string, stake, payout, profit float64) {
	al.WithFields(logrus.Fields{
		"bet_id":  betID,
		"user_id": userID,
		"status":  status,
		"stake":   stake,
		"payout":  payout,
		"profit":  profit,
	}).Info("Bet settled")
}

// LogSettlementConflict logs a settlement attempt that lost the
// conditional-write race to a concurrent pass.
func (al *AuditLogger) LogSettlementConflict(betID, userID string) {
	al.WithFields(logrus.Fields{
		"bet_id":  betID,
		"user_id": userID,
	}).Warn("Settlement skipped, bet no longer pending")
}
