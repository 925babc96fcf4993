package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"shutterHabitAPI/internal/apperrors"
	"shutterHabitAPI/internal/types/quiz"
	"shutterHabitAPI/middleware"
	"shutterHabitAPI/services"

	"github.com/gorilla/mux"
)

type QuizHandler struct {
	quizService *services.QuizService
}

func NewQuizHandler(quizService *services.QuizService) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
	}
}

func (h *QuizHandler) GetQuizzes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	quizzes, err := h.quizService.GetQuizzes(ctx)
	if err != nil {
		log.Printf("Error fetching quizzes: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching quizzes")
		return
	}

	respondWithJSON(w, http.StatusOK, quizzes)
}

func (h *QuizHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	quizID := mux.Vars(r)["id"]

	q, err := h.quizService.GetQuizByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, apperrors.ErrQuizNotFound) {
			respondWithError(w, http.StatusNotFound, "Quiz not found")
			return
		}
		log.Printf("Error fetching quiz %s: %v", quizID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching quiz")
		return
	}

	questions, err := h.quizService.GetPublicQuestions(ctx, quizID)
	if err != nil {
		log.Printf("Error fetching questions for quiz %s: %v", quizID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching quiz questions")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"quiz":      q,
		"questions": questions,
	})
}

func (h *QuizHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	quizID := mux.Vars(r)["id"]

	var req quiz.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	attempt, err := h.quizService.SubmitAttempt(ctx, userID, quizID, req.Answers, req.TimeTakenMinutes)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrQuizNotFound):
			respondWithError(w, http.StatusNotFound, "Quiz not found")
		case errors.Is(err, apperrors.ErrMalformedQuiz):
			respondWithError(w, http.StatusUnprocessableEntity, "Quiz has no gradable questions")
		default:
			log.Printf("Error submitting attempt on quiz %s for %s: %v", quizID, userID, err)
			respondWithError(w, http.StatusInternalServerError, "Error submitting attempt")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, attempt)
}

func (h *QuizHandler) GetMyAttempts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	attempts, err := h.quizService.GetUserQuizAttempts(ctx, userID)
	if err != nil {
		log.Printf("Error fetching quiz attempts for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching attempts")
		return
	}

	respondWithJSON(w, http.StatusOK, attempts)
}

func (h *QuizHandler) GetBestAttempt(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	quizID := mux.Vars(r)["id"]

	attempt, err := h.quizService.GetBestQuizAttempt(ctx, userID, quizID)
	if err != nil {
		log.Printf("Error fetching best attempt on quiz %s for %s: %v", quizID, userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching best attempt")
		return
	}

	respondWithJSON(w, http.StatusOK, attempt)
}
