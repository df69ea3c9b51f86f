package stream

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/motive/style"
)

// controlMessage is the JSON control payload accepted on the control topic.
type controlMessage struct {
	Type string `json:"type"`
}

// Streamer mirrors the engine's applied style state to a remote renderer
// over MQTT, one frame per tick. It is a pure observer of the registry; the
// engine never depends on it.
type Streamer struct {
	config Config
	client mqtt.Client
	reg    *style.Registry
	start  time.Time
	force  chan struct{}
}

// NewStreamer creates a Streamer over the given registry.
func NewStreamer(config Config, client mqtt.Client, reg *style.Registry) *Streamer {
	s := new(Streamer)
	s.config = config
	s.client = client
	s.reg = reg
	s.start = time.Now()
	s.force = make(chan struct{}, 1)
	return s
}

// Subscribe attaches the control-topic handler. Call it from the MQTT
// on-connect handler so the subscription survives reconnects.
func (s *Streamer) Subscribe() {
	topic := s.config.Mqtt.Topics.Control
	if topic == "" {
		return
	}
	s.client.Subscribe(topic, 1, s.handleControlMessage)
}

func (s *Streamer) handleControlMessage(client mqtt.Client, msg mqtt.Message) {
	var message controlMessage
	if err := json.Unmarshal(msg.Payload(), &message); err != nil {
		log.Printf("stream: bad control message on %s: %v", msg.Topic(), err)
		return
	}
	if message.Type == "snapshot" {
		select {
		case s.force <- struct{}{}:
		default:
		}
	}
}

// SendFrame captures and publishes one style frame.
func (s *Streamer) SendFrame() {
	f := NewFrame(time.Since(s.start).Milliseconds(), s.reg)
	b, err := f.Marshal()
	if err != nil {
		log.Printf("stream: cannot marshal frame: %v", err)
		return
	}
	token := s.client.Publish(s.config.Mqtt.Topics.Styles, 0, false, b)
	token.Wait()
}

// Run publishes frames continuously at the configured frame rate until ctx
// is cancelled.
func (s *Streamer) Run(ctx context.Context) error {
	rate := s.config.FrameRate
	if rate <= 0 {
		rate = 30
	}
	publishTimer := time.NewTicker(time.Duration(float64(time.Second) / rate))
	defer publishTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-publishTimer.C:
			s.SendFrame()
		case <-s.force:
			s.SendFrame()
		}
	}
}
