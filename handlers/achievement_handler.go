package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"shutterHabitAPI/middleware"
	"shutterHabitAPI/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
}

func NewAchievementHandler(achievementService *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
	}
}

func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	achievements, err := h.achievementService.GetAchievementsWithStatus(ctx, userID)
	if err != nil {
		log.Printf("Error fetching achievements for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, achievements)
}

func (h *AchievementHandler) CheckAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	newlyEarned, err := h.achievementService.CheckAndAward(ctx, userID)
	if err != nil {
		log.Printf("Error checking achievements for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error checking achievements")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"newly_earned": newlyEarned,
	})
}
