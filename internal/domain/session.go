package domain

type SocketPhase string

const (
	PhaseDisconnected SocketPhase = "disconnected"
	PhaseConnecting   SocketPhase = "connecting"
	PhaseConnected    SocketPhase = "connected"
)

type Battery string

const (
	BatteryUnknown Battery = "unknown"
	BatteryOK      Battery = "ok"
	BatteryLow     Battery = "low"
)

// SessionState is a snapshot of the link as seen by the session client.
type SessionState struct {
	Phase                  SocketPhase
	ConnectionID           string
	HelloSent              bool
	GatewayHealthy         bool
	MotorControllerHealthy bool
	Battery                Battery
}

func (s SessionState) Connected() bool {
	return s.Phase == PhaseConnected
}

// Healthy reports whether both downstream hops are up.
func (s SessionState) Healthy() bool {
	return s.Connected() && s.GatewayHealthy && s.MotorControllerHealthy
}

// InboundMessage is a decoded frame received from the robot backend.
type InboundMessage struct {
	Type string
	Raw  []byte
}

type DoorAction string

const (
	DoorOpen  DoorAction = "open"
	DoorClose DoorAction = "close"
)

func (a DoorAction) Valid() bool {
	return a == DoorOpen || a == DoorClose
}

// ValidDoor reports whether index names one of the robot's doors.
func ValidDoor(index int) bool {
	return index >= 1 && index <= 3
}
