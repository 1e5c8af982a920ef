package ws

const (
	typeStatus          = "status"
	typeController      = "controller"
	typeSequence        = "sequence"
	typeAck             = "ack"
	typeDoor            = "door"
	typeCurrentPosition = "current_position"

	linkConnected    = "CONNECTED"
	linkDisconnected = "DISCONNECTED"
	motorReady       = "READY"
	batteryLow       = "LOW"
)

type controllerMessage struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type sequenceMessage struct {
	Type string `json:"type"`
	Seq  string `json:"seq"`
}

type ackMessage struct {
	Type  string `json:"type"`
	Event string `json:"event"`
	Value string `json:"value"`
}

type doorMessage struct {
	Type   string `json:"type"`
	Index  int    `json:"index"`
	Action string `json:"action"`
}

type positionMessage struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// inboundFrame holds the fields the client interprets. Status and battery
// fields are untyped so one field of an unexpected type does not discard the
// rest of the frame.
type inboundFrame struct {
	Type    string `json:"type"`
	WS      any    `json:"ws"`
	ESP32   any    `json:"esp32"`
	Mega    any    `json:"mega"`
	LowBat  any    `json:"lowbat"`
	Battery any    `json:"battery"`
}

// text returns v when it is a JSON string and "" otherwise.
func text(v any) string {
	s, _ := v.(string)
	return s
}
