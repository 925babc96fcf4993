package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"shutterHabitAPI/internal/apperrors"
	"shutterHabitAPI/internal/types/activity"
	"shutterHabitAPI/middleware"
	"shutterHabitAPI/services"

	"github.com/gorilla/mux"
)

type ActivityHandler struct {
	activityService *services.ActivityService
}

func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

func (h *ActivityHandler) GetDailyActivities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit parameter")
			return
		}
		limit = parsed
	}

	activities, err := h.activityService.GetDailyActivities(ctx, userID, limit)
	if err != nil {
		log.Printf("Error fetching daily activities for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching activities")
		return
	}

	respondWithJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) GetActivityByDate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	date, err := time.Parse("2006-01-02", mux.Vars(r)["date"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Date must be in YYYY-MM-DD format")
		return
	}

	act, err := h.activityService.GetActivityByDate(ctx, userID, date)
	if err != nil {
		log.Printf("Error fetching activity for %s on %s: %v", userID, date.Format("2006-01-02"), err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching activity")
		return
	}

	// No log for that day yet: the client renders an empty day.
	respondWithJSON(w, http.StatusOK, act)
}

func (h *ActivityHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req activity.RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	act, err := h.activityService.RecordActivity(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not found")
			return
		}
		log.Printf("Error recording activity for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error recording activity")
		return
	}

	respondWithJSON(w, http.StatusOK, act)
}

func (h *ActivityHandler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	activityID := mux.Vars(r)["id"]

	if err := h.activityService.DeleteActivity(ctx, activityID, userID); err != nil {
		if errors.Is(err, apperrors.ErrActivityNotFound) {
			respondWithError(w, http.StatusNotFound, "Activity not found")
			return
		}
		log.Printf("Error deleting activity %s for %s: %v", activityID, userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error deleting activity")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Activity deleted successfully"})
}
