package quiz

type SubmitAttemptRequest struct {
	Answers          map[string]string `json:"answers" validate:"required"`
	TimeTakenMinutes int               `json:"time_taken_minutes" validate:"gte=0"`
}
