package mqtt

import (
	"fmt"
	"strings"

	"navigation-qr/internal/graph"
	"navigation-qr/internal/payload"
)

// Publisher is the part of MQTTManager used by PublishFloor.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) error
}

// Topic is <prefix>/piso<floor>/<node>, with '/' and the MQTT wildcards in
// the node id replaced by '_'.
func Topic(prefix string, floor int, nodeID string) string {
	r := strings.NewReplacer("/", "_", "+", "_", "#", "_")
	return fmt.Sprintf("%s/piso%d/%s", strings.TrimSuffix(prefix, "/"), floor, r.Replace(nodeID))
}

// PublishFloor publishes the retained payload of every node of g.
// Nodes without id are addressed as nodo_<index>, like their QR files.
func PublishFloor(pub Publisher, prefix string, qos byte, floor int, g *graph.Graph) (int, error) {
	sent := 0
	for i, n := range g.Nodes {
		topic := Topic(prefix, floor, n.FileStem(i+1))
		if err := pub.Publish(topic, qos, true, payload.Build(n, floor)); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
