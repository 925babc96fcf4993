package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"shutterHabitAPI/internal/apperrors"
	"shutterHabitAPI/internal/types/course"
	"shutterHabitAPI/middleware"
	"shutterHabitAPI/services"

	"github.com/gorilla/mux"
)

type CourseHandler struct {
	courseService *services.CourseService
	detailService *services.CourseDetailService
}

func NewCourseHandler(courseService *services.CourseService, detailService *services.CourseDetailService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
		detailService: detailService,
	}
}

func (h *CourseHandler) GetCourses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	courses, err := h.courseService.GetCourses(ctx)
	if err != nil {
		log.Printf("Error fetching courses: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching courses")
		return
	}

	respondWithJSON(w, http.StatusOK, courses)
}

func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	courseID := mux.Vars(r)["id"]

	c, err := h.courseService.GetCourseByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			respondWithError(w, http.StatusNotFound, "Course not found")
			return
		}
		log.Printf("Error fetching course %s: %v", courseID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching course")
		return
	}

	respondWithJSON(w, http.StatusOK, c)
}

func (h *CourseHandler) GetCourseContent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	courseID := mux.Vars(r)["id"]

	content, err := h.courseService.GetCourseContent(ctx, courseID)
	if err != nil {
		log.Printf("Error fetching content for course %s: %v", courseID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching course content")
		return
	}

	respondWithJSON(w, http.StatusOK, content)
}

func (h *CourseHandler) StartCourse(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	courseID := mux.Vars(r)["id"]

	progress, err := h.courseService.StartCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCourseNotFound) {
			respondWithError(w, http.StatusNotFound, "Course not found")
			return
		}
		log.Printf("Error starting course %s for %s: %v", courseID, userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error starting course")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

func (h *CourseHandler) UpdateCourseProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	courseID := mux.Vars(r)["id"]

	var req course.UpdateProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	progress, err := h.courseService.UpdateCourseProgress(ctx, userID, courseID, req.ProgressPercentage)
	if err != nil {
		if errors.Is(err, apperrors.ErrProgressNotFound) {
			respondWithError(w, http.StatusNotFound, "Course not started")
			return
		}
		log.Printf("Error updating progress on course %s for %s: %v", courseID, userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error updating course progress")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

func (h *CourseHandler) GetMyCourseProgress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	progress, err := h.courseService.GetAllUserProgress(ctx, userID)
	if err != nil {
		log.Printf("Error fetching course progress for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching course progress")
		return
	}

	respondWithJSON(w, http.StatusOK, progress)
}

func (h *CourseHandler) GetCourseWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	courseID := mux.Vars(r)["id"]

	weeks, err := h.detailService.GetCourseWeeks(ctx, courseID)
	if err != nil {
		log.Printf("Error fetching weeks for course %s: %v", courseID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching course weeks")
		return
	}

	respondWithJSON(w, http.StatusOK, weeks)
}

func (h *CourseHandler) GetWeekActivities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	weekID := mux.Vars(r)["weekId"]

	activities, err := h.detailService.GetWeekActivities(ctx, weekID)
	if err != nil {
		log.Printf("Error fetching activities for week %s: %v", weekID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching week activities")
		return
	}

	respondWithJSON(w, http.StatusOK, activities)
}

func (h *CourseHandler) GetCourseActivities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	courseID := mux.Vars(r)["id"]

	activities, err := h.detailService.GetCourseActivities(ctx, courseID)
	if err != nil {
		log.Printf("Error fetching activities for course %s: %v", courseID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching course activities")
		return
	}

	respondWithJSON(w, http.StatusOK, activities)
}

func (h *CourseHandler) GetCourseProject(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	courseID := mux.Vars(r)["id"]

	project, err := h.detailService.GetCourseProject(ctx, courseID)
	if err != nil {
		log.Printf("Error fetching project for course %s: %v", courseID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching course project")
		return
	}

	respondWithJSON(w, http.StatusOK, project)
}

func (h *CourseHandler) GetProjectCriteria(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	projectID := mux.Vars(r)["projectId"]

	criteria, err := h.detailService.GetProjectCriteria(ctx, projectID)
	if err != nil {
		log.Printf("Error fetching criteria for project %s: %v", projectID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching project criteria")
		return
	}

	respondWithJSON(w, http.StatusOK, criteria)
}

func (h *CourseHandler) GetActivityCompletions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req struct {
		ActivityIDs []string `json:"activity_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	completions, err := h.detailService.GetUserActivityCompletions(ctx, userID, req.ActivityIDs)
	if err != nil {
		log.Printf("Error fetching activity completions for %s: %v", userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error fetching completions")
		return
	}

	respondWithJSON(w, http.StatusOK, completions)
}

func (h *CourseHandler) ToggleActivityCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req course.ToggleCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	completion, err := h.detailService.ToggleActivityCompletion(ctx, userID, req.ActivityID, req.Completed)
	if err != nil {
		log.Printf("Error toggling completion of %s for %s: %v", req.ActivityID, userID, err)
		respondWithError(w, http.StatusInternalServerError, "Error toggling activity completion")
		return
	}

	respondWithJSON(w, http.StatusOK, completion)
}
