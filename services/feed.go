package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/squarepicks/squares-backend/config"
	"github.com/squarepicks/squares-backend/models"
	"github.com/squarepicks/squares-backend/utils/logger"

	"gorm.io/gorm"
)

const DefaultFeedIntervalSec = 30

// ScoreUpdate is one live-score snapshot from the sports data provider (or
// from the manual ops push endpoint, which feeds the same pipeline).
type ScoreUpdate struct {
	GameSID    string            `json:"sid" binding:"required"`
	Status     models.GameStatus `json:"status"`
	IsLive     bool              `json:"isLive"`
	Period     int               `json:"period"`
	IsHalftime bool              `json:"isHalftime"`
	HomeScore  int               `json:"home_team_score"`
	AwayScore  int               `json:"away_team_score"`
}

// ProcessScoreUpdate applies one feed snapshot: fires board activation and
// cancellation on the isLive flip, settles every period checkpoint crossed
// since the last snapshot, then persists the game state and advances board
// progress statuses. Period values only move forward; a stale snapshot with
// a lower period cannot rewind the game.
func ProcessScoreUpdate(u ScoreUpdate) error {
	var game models.Game
	if err := config.DB.Where("sid = ?", u.GameSID).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGameNotFound
		}
		return err
	}

	prevPeriod := game.Period
	// A feed gap can skip the isLive=true snapshot entirely, so a first-seen
	// in-progress or final status on a never-live game counts as the flip.
	liveNow := u.IsLive || u.Status == models.GameInProgress
	wentLive := !game.IsLive && (liveNow || u.Status == models.GameFinal)
	finished := u.Status == models.GameFinal && game.Status != models.GameFinal

	newPeriod := game.Period
	if u.Period > newPeriod {
		newPeriod = u.Period
	}

	// Board triggers fire before the game cursor is persisted. If one fails,
	// the stored (is_live, period) pair is untouched and the next delivery of
	// the snapshot recomputes the same flip and boundaries; the handlers are
	// keyed idempotent, so a partial pass resumes where it stopped.
	if wentLive {
		logger.Infof("[Game %s] is live", game.SID)
		if err := HandleGameLive(game.ID); err != nil {
			return err
		}
	}

	for _, checkpoint := range crossedCheckpoints(prevPeriod, newPeriod, finished) {
		logger.Infof("[Game %s] period boundary %s reached (%d-%d)",
			game.SID, checkpoint, u.HomeScore, u.AwayScore)
		if err := SettleGamePeriod(game.ID, checkpoint, u.HomeScore, u.AwayScore); err != nil {
			return err
		}
	}

	updates := map[string]interface{}{
		"home_score":  u.HomeScore,
		"away_score":  u.AwayScore,
		"period":      newPeriod,
		"is_halftime": u.IsHalftime,
	}
	if u.Status != "" {
		updates["status"] = u.Status
	}
	if u.Status == models.GameFinal {
		updates["is_live"] = false
		updates["is_halftime"] = false
	} else if liveNow || game.IsLive {
		updates["is_live"] = true
	}

	if err := config.DB.Model(&models.Game{}).Where("id = ?", game.ID).Updates(updates).Error; err != nil {
		return err
	}
	game.Period = newPeriod
	game.IsHalftime = u.IsHalftime
	if u.Status != "" {
		game.Status = u.Status
	}

	return AdvanceBoards(&game)
}

// crossedCheckpoints lists, in order, the settlement checkpoints passed
// between two period values. A jump across several boundaries (missed polls)
// yields every crossed checkpoint; the final checkpoint fires only on the
// game's transition to final.
func crossedCheckpoints(prev, cur int, finished bool) []string {
	var crossed []string
	if prev < models.PeriodQ2 && cur >= models.PeriodQ2 {
		crossed = append(crossed, models.PeriodLabelQ1)
	}
	if prev < models.PeriodQ3 && cur >= models.PeriodQ3 {
		crossed = append(crossed, models.PeriodLabelHalf)
	}
	if prev < models.PeriodQ4 && cur >= models.PeriodQ4 {
		crossed = append(crossed, models.PeriodLabelQ3)
	}
	if finished {
		crossed = append(crossed, models.PeriodLabelFinal)
	}
	return crossed
}

// LiveUpdatesDisabled is the ops kill switch: when set, the scheduled
// ingestion loop skips its ticks. The manual push endpoint stays available
// for controlled testing.
func LiveUpdatesDisabled() bool {
	return os.Getenv("DISABLE_LIVE_UPDATES") == "true"
}

// StartScoreFeed polls the external score provider on a fixed interval and
// pushes every snapshot through ProcessScoreUpdate. Runs until the process
// exits; transient fetch failures are logged and retried next tick.
func StartScoreFeed() {
	url := os.Getenv("SCORE_FEED_URL")
	if url == "" {
		logger.Infof("[Feed] SCORE_FEED_URL not set, live ingestion disabled")
		return
	}

	interval := DefaultFeedIntervalSec
	if s := os.Getenv("SCORE_FEED_INTERVAL"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			interval = n
		}
	}

	logger.Infof("[Feed] polling %s every %ds", url, interval)
	ticker := time.NewTicker(time.Duration(interval) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if LiveUpdatesDisabled() {
			logger.Debugf("[Feed] live updates disabled, skipping tick")
			continue
		}
		if err := pollScoreFeed(url); err != nil {
			logger.Errorf("[Feed] poll failed: %v", err)
		}
	}
}

// pollScoreFeed fetches the provider's score snapshot list and applies each.
func pollScoreFeed(url string) error {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var updates []ScoreUpdate
	if err := json.NewDecoder(resp.Body).Decode(&updates); err != nil {
		return fmt.Errorf("failed to parse feed response: %w", err)
	}

	for _, u := range updates {
		if err := ProcessScoreUpdate(u); err != nil {
			if errors.Is(err, ErrGameNotFound) {
				logger.Debugf("[Feed] unknown game %s, skipping", u.GameSID)
				continue
			}
			logger.Errorf("[Feed] update for game %s failed: %v", u.GameSID, err)
		}
	}
	return nil
}
