package activity

// RecordActivityRequest is the upsert payload for one day's log.
type RecordActivityRequest struct {
	ActivityDate       string `json:"activity_date" validate:"required,datetime=2006-01-02"`
	PhotosCount        int    `json:"photos_count" validate:"gte=0"`
	VideoCompleted     bool   `json:"video_completed"`
	EditingCompleted   bool   `json:"editing_completed"`
	EditingTimeMinutes int    `json:"editing_time_minutes" validate:"gte=0"`
	Comments           string `json:"comments" validate:"max=2000"`
}
