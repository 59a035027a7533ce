package packets

// PlayRequest names the prayer to play, or the "Test" sentinel.
type PlayRequest struct {
	Prayer string `json:"prayer" binding:"required"`
}

// PlayedRequest is the playback subsystem reporting a completed play.
type PlayedRequest struct {
	Prayer string `json:"prayer" binding:"required"`
}
