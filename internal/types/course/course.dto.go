package course

type UpdateProgressRequest struct {
	ProgressPercentage int `json:"progress_percentage" validate:"gte=0,lte=100"`
}

type ToggleCompletionRequest struct {
	ActivityID string `json:"activity_id" validate:"required,uuid"`
	Completed  bool   `json:"completed"`
}
