// Package playback is the boundary to the external audio subsystem.
// Commands go out over MQTT; the subsystem reports its downloading and
// playing flags back on a status topic.
package playback

// TestPrayer is the sentinel accepted by PlayAzan to trigger a test
// playback without marking anything as played.
const TestPrayer = "Test"

// Flags mirrors the playback subsystem's last reported state.
type Flags struct {
	Downloading      bool   `json:"downloading"`
	Playing          bool   `json:"playing"`
	CurrentlyPlaying string `json:"currently_playing"`
}

// Dispatcher issues playback commands and exposes the reported flags.
type Dispatcher interface {
	PlayAzan(prayer string) error
	Flags() Flags
	Close()
}
