// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package publish

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/GermanBionicSystems/sensors/internal/config"
)

var (
	ErrConnectionFailed = errors.New("publish: mqtt connection failed")
	ErrPublishTimeout   = errors.New("publish: mqtt publish timeout")
)

// disconnectQuiesce is the time in milliseconds given to in-flight
// messages on Close.
const disconnectQuiesce = 250

// mqttClient is the subset of pahomqtt.Client used by MQTTSink.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// MQTTSink publishes readings as JSON to <prefix>/<device>/state.
type MQTTSink struct {
	c       mqttClient
	prefix  string
	qos     byte
	retain  bool
	timeout time.Duration
}

// DialMQTT connects to the broker of cfg.
func DialMQTT(cfg config.MQTTConfig) (*MQTTSink, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.Timeout)
	c := pahomqtt.NewClient(opts)
	token := c.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, cfg.Timeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return newMQTTSink(c, cfg), nil
}

func newMQTTSink(c mqttClient, cfg config.MQTTConfig) *MQTTSink {
	return &MQTTSink{c: c, prefix: cfg.TopicPrefix, qos: cfg.QoS, retain: cfg.Retain, timeout: cfg.Timeout}
}

// Topic returns the state topic of device.
func (s *MQTTSink) Topic(device string) string {
	if s.prefix == "" {
		return device + "/state"
	}
	return s.prefix + "/" + device + "/state"
}

func (s *MQTTSink) Publish(r Reading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	token := s.c.Publish(s.Topic(r.Device), s.qos, s.retain, payload)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("%w: after %v", ErrPublishTimeout, s.timeout)
	}
	return token.Error()
}

func (s *MQTTSink) Close() error {
	s.c.Disconnect(disconnectQuiesce)
	return nil
}
