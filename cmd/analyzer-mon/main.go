package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"reflect"
	"strings"

	"github.com/robotalks/analyzer.go/pkg/telemetry"
	"github.com/robotalks/analyzer.go/pkg/telemetry/mqtt"
	"github.com/robotalks/analyzer.go/pkg/telemetry/msgs"
)

var (
	brokerURL = "mqtt://localhost:1883/"
	filter    = "#"
)

func init() {
	if val := os.Getenv("ANALYZER_BROKER_URL"); val != "" {
		brokerURL = val
	}
	flag.StringVar(&brokerURL, "broker", brokerURL, "MQTT broker URL.")
	flag.StringVar(&filter, "filter", filter, "Topic filter.")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(brokerURL)
	if err != nil {
		log.Fatalln(err)
	}
	if token := q.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalln(token.Error())
	}
	defer q.Close()

	q.Sub(filter, mqtt.Handler(func(topic string, payload []byte) {
		if strings.HasSuffix(topic, "/"+telemetry.TopicMeta) {
			if len(payload) == 0 {
				log.Printf("%s: gone", topic)
				return
			}
			log.Printf("%s: %s", topic, string(payload))
			return
		}
		typed, err := msgs.DecodeTyped(payload)
		if err != nil {
			log.Printf("%s: bad message: %v", topic, err)
			return
		}
		msg, err := typed.Decode()
		if err != nil {
			log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeID, err)
			return
		}
		log.Printf("%s: [%s] %s", topic,
			reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
			msg.(msgs.SerializableMessage).Serializable().String())
	}))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	<-sigCh
}
