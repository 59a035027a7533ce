package prayer

// PlaybackStatus is the coarse state of the external playback subsystem.
type PlaybackStatus string

const (
	StatusIdle        PlaybackStatus = "idle"
	StatusDownloading PlaybackStatus = "downloading"
	StatusPlaying     PlaybackStatus = "playing"
)

// ResolveStatus maps the playback subsystem's two flags to a status,
// with downloading taking precedence over playing.
func ResolveStatus(downloading, playing bool) PlaybackStatus {
	switch {
	case downloading:
		return StatusDownloading
	case playing:
		return StatusPlaying
	default:
		return StatusIdle
	}
}
