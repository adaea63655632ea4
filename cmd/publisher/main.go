package main

import (
    "encoding/json"
    "log"
    "os"

    stan "github.com/nats-io/stan.go"
)

// Dev tool: pipe a location-change event as JSON on stdin and publish it to
// the subject the cart service listens on, e.g.
//
//	echo '{"location":{"id":"z2","name":"north","is_express":true},"geo":{"lat":55.7,"lon":37.6}}' | go run ./cmd/publisher
func main() {
    clusterID := getenv("STAN_CLUSTER_ID", "cart-cluster")
    clientID := getenv("STAN_PUB_ID", "cart-location-publisher")
    natsURL := getenv("NATS_URL", "nats://localhost:4223")
    subject := getenv("STAN_LOCATION_SUBJECT", "location-events")

    sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(natsURL))
    if err != nil {
        log.Fatalf("stan connect: %v", err)
    }
    defer sc.Close()

    var payload map[string]any
    dec := json.NewDecoder(os.Stdin)
    if err := dec.Decode(&payload); err != nil {
        log.Fatalf("read json from stdin: %v", err)
    }
    if _, ok := payload["location"]; !ok {
        log.Fatalf("event has no location field")
    }
    b, err := json.Marshal(payload)
    if err != nil {
        log.Fatalf("marshal: %v", err)
    }
    if err := sc.Publish(subject, b); err != nil {
        log.Fatalf("publish: %v", err)
    }
    log.Printf("published %d bytes to %s", len(b), subject)
}

func getenv(k, d string) string {
    if v := os.Getenv(k); v != "" { return v }
    return d
}
