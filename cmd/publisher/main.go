package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Mock tracked device: publishes location samples over MQTT, wandering around
// a home point and occasionally drifting far enough to leave a 200m safe zone.

type locationMessage struct {
	DeviceID  string  `json:"device_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

const (
	homeLat = 35.6595
	homeLng = 139.7005
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds>\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("carewatch-mock-device")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	devicePool := []string{"dev-tracker-01", "dev-tracker-02", "dev-tracker-03"}

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)
	log.Printf("device pool: %v", devicePool)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		deviceID := devicePool[rand.Intn(len(devicePool))]

		var lat, lng float64
		// 20% chance to wander ~500m out; otherwise stay within ~100m of home
		if rand.Float64() < 0.2 {
			lat = homeLat + (rand.Float64()-0.5)*0.01
			lng = homeLng + (rand.Float64()-0.5)*0.01
		} else {
			lat = homeLat + (rand.Float64()-0.5)*0.001
			lng = homeLng + (rand.Float64()-0.5)*0.001
		}

		msg := locationMessage{
			DeviceID:  deviceID,
			Latitude:  lat,
			Longitude: lng,
			Accuracy:  5 + rand.Float64()*10,
			Timestamp: time.Now().Unix(),
		}

		payload, _ := json.Marshal(msg)
		topic := fmt.Sprintf("care/device/%s/location", deviceID)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
