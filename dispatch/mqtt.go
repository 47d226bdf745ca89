package dispatch

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/rajiv-sit/ultrasound-processor/uss"
)

// MQTTConfig parametrises the telemetry publisher.
type MQTTConfig struct {
	Broker   string
	Port     int
	Topic    string
	Username string
	Password string
	QoS      byte
}

// MQTTPublisher pushes clustered detections to an MQTT topic as JSON, one
// message per frame. Publishing is fire-and-forget; broker hiccups are
// logged and dropped.
type MQTTPublisher struct {
	config MQTTConfig
	client mqtt.Client
}

type detectionMessage struct {
	TimestampUs uint64      `json:"timestamp_us"`
	Fused       int         `json:"fused"`
	Clustered   []uss.Point `json:"clustered"`
}

// NewMQTTPublisher connects to the broker.
func NewMQTTPublisher(config MQTTConfig) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", config.Broker, config.Port))
	opts.SetClientID(fmt.Sprintf("uss-pipeline-%d", time.Now().Unix()))
	if config.Username != "" {
		opts.SetUsername(config.Username)
		opts.SetPassword(config.Password)
	}
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s:%d: %v", config.Broker, config.Port, token.Error())
	}
	log.Printf("[MQTT] Connected to %s:%d topic=%s", config.Broker, config.Port, config.Topic)
	return &MQTTPublisher{config: config, client: client}, nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}

// Attach registers the publisher as the processed-detections sink.
func (p *MQTTPublisher) Attach(r *Registry) {
	r.RegisterProcessedDetections(func(det uss.ProcessedDetections, ts uint64) {
		msg := detectionMessage{
			TimestampUs: ts,
			Fused:       len(det.Fused),
			Clustered:   det.Clustered,
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			log.Printf("[MQTT] marshal failed: %v", err)
			return
		}
		token := p.client.Publish(p.config.Topic, p.config.QoS, false, payload)
		go func() {
			token.Wait()
			if token.Error() != nil {
				log.Printf("[MQTT] publish failed: %v", token.Error())
			}
		}()
	})
}
