package playback

import (
	"encoding/json"
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	playTopic   = "minaret/playback/play"
	statusTopic = "minaret/playback/status"

	publishQoS   = 1
	subscribeQoS = 1
)

// playCommand is the wire format of a play_azan trigger.
type playCommand struct {
	Prayer string `json:"prayer"`
}

// MQTTDispatcher publishes play commands to the broker and tracks the
// playback subsystem's status reports.
type MQTTDispatcher struct {
	client mqtt.Client

	mu    sync.RWMutex
	flags Flags
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("mqtt connection lost")
}

// NewMQTTDispatcher connects to the broker and subscribes to the
// playback status topic.
func NewMQTTDispatcher(brokerURL string) (*MQTTDispatcher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID("minaretd")
	opts.SetAutoReconnect(true)
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	d := &MQTTDispatcher{client: client}
	if token := client.Subscribe(statusTopic, subscribeQoS, d.onStatus); token.Wait() && token.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("failed to subscribe to %s: %w", statusTopic, token.Error())
	}

	log.Info().Str("broker", brokerURL).Msg("mqtt playback dispatcher connected")
	return d, nil
}

// PlayAzan publishes a play command for the given prayer name (or the
// "Test" sentinel).
func (d *MQTTDispatcher) PlayAzan(prayer string) error {
	payload, err := json.Marshal(playCommand{Prayer: prayer})
	if err != nil {
		return err
	}
	if token := d.client.Publish(playTopic, publishQoS, false, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to publish play command: %w", token.Error())
	}
	log.Info().Str("prayer", prayer).Msg("dispatched play_azan")
	return nil
}

// Flags returns the last reported playback state.
func (d *MQTTDispatcher) Flags() Flags {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.flags
}

func (d *MQTTDispatcher) Close() {
	d.client.Disconnect(250)
}

func (d *MQTTDispatcher) onStatus(_ mqtt.Client, msg mqtt.Message) {
	var flags Flags
	if err := json.Unmarshal(msg.Payload(), &flags); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("malformed playback status message")
		return
	}
	d.mu.Lock()
	d.flags = flags
	d.mu.Unlock()
}

// NopDispatcher is used when no broker is configured: commands are
// logged and dropped, flags stay at their zero value.
type NopDispatcher struct{}

func (NopDispatcher) PlayAzan(prayer string) error {
	log.Info().Str("prayer", prayer).Msg("no mqtt broker configured, play_azan dropped")
	return nil
}

func (NopDispatcher) Flags() Flags { return Flags{} }

func (NopDispatcher) Close() {}
