package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bnema/robotctl/internal/domain"
	"github.com/bnema/robotctl/internal/ports"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const defaultWriteTimeout = 5 * time.Second

// ErrConnectAborted is returned by Connect when Close ran while the dial was
// in flight.
var ErrConnectAborted = errors.New("robot link closed while connecting")

type Config struct {
	// URL is the websocket endpoint, e.g. ws://192.168.0.229:8080/ws.
	URL          string
	Dialer       *websocket.Dialer
	WriteTimeout time.Duration
	Logger       *slog.Logger
}

// Client owns the socket to the robot backend and the session state derived
// from it. Every connection instance gets its own handshake.
type Client struct {
	cfg    Config
	logger *slog.Logger

	mu         sync.Mutex
	conn       *websocket.Conn
	generation uint64
	state      domain.SessionState
	sink       ports.MessageSink

	writeMu sync.Mutex
}

var _ ports.RobotLink = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		cfg:    cfg,
		logger: cfg.Logger.With("component", "robot-link"),
		state: domain.SessionState{
			Phase:   domain.PhaseDisconnected,
			Battery: domain.BatteryUnknown,
		},
	}
}

// EndpointFromBaseURL turns the backend's http(s) base URL into its websocket
// endpoint.
func EndpointFromBaseURL(baseURL string, path string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}

	switch parsed.Scheme {
	case "http", "ws":
		parsed.Scheme = "ws"
	case "https", "wss":
		parsed.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", errors.New("server url host is required")
	}

	if path == "" {
		path = "/ws"
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/" + strings.TrimLeft(path, "/")
	parsed.RawQuery = ""

	return parsed.String(), nil
}

func (c *Client) Connect(ctx context.Context, sink ports.MessageSink) error {
	c.mu.Lock()
	if c.state.Phase != domain.PhaseDisconnected {
		c.mu.Unlock()
		return nil
	}
	c.state.Phase = domain.PhaseConnecting
	c.sink = sink
	dialGeneration := c.generation
	c.mu.Unlock()

	c.logger.Info("connecting", "url", c.cfg.URL)
	conn, _, err := c.cfg.Dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		c.mu.Lock()
		if c.generation == dialGeneration {
			c.state.Phase = domain.PhaseDisconnected
		}
		c.mu.Unlock()
		c.logger.Warn("connect failed", "url", c.cfg.URL, "error", err)
		return fmt.Errorf("dial robot link: %w", err)
	}

	c.mu.Lock()
	if c.generation != dialGeneration {
		c.mu.Unlock()
		_ = conn.Close()
		c.logger.Info("dropping connection opened after close", "url", c.cfg.URL)
		return ErrConnectAborted
	}
	c.generation++
	generation := c.generation
	c.conn = conn
	c.state.Phase = domain.PhaseConnected
	c.state.ConnectionID = uuid.NewString()
	c.state.HelloSent = false
	c.state.GatewayHealthy = false
	c.state.MotorControllerHealthy = false
	connectionID := c.state.ConnectionID
	c.mu.Unlock()

	c.logger.Info("connected", "connection_id", connectionID)
	go c.readLoop(conn, generation)

	if err := c.SendControllerConnected(ctx); err != nil {
		return fmt.Errorf("announce controller: %w", err)
	}

	return nil
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.Phase == domain.PhaseConnected
}

func (c *Client) State() domain.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Client) SendSequence(ctx context.Context, wire string) error {
	c.logger.Debug("sending sequence", "seq", wire)
	return c.send(ctx, sequenceMessage{Type: typeSequence, Seq: wire})
}

// SendControllerConnected announces the controller once per connection
// instance; later calls on the same connection are no-ops.
func (c *Client) SendControllerConnected(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Phase != domain.PhaseConnected {
		c.mu.Unlock()
		return ports.ErrNotConnected
	}
	if c.state.HelloSent {
		c.mu.Unlock()
		return nil
	}
	c.state.HelloSent = true
	conn, generation := c.conn, c.generation
	c.mu.Unlock()

	c.logger.Debug("sending controller hello")
	return c.write(ctx, conn, generation, controllerMessage{Type: typeController, Status: "connected"})
}

func (c *Client) SendAck(ctx context.Context, wire string) error {
	return c.send(ctx, ackMessage{Type: typeAck, Event: typeSequence, Value: wire})
}

// SendDoor sends the JSON door event followed by the plain-text command used
// by the lower-level transport hop.
func (c *Client) SendDoor(ctx context.Context, index int, action domain.DoorAction) error {
	if !domain.ValidDoor(index) || !action.Valid() {
		return fmt.Errorf("%w: %d %s", domain.ErrInvalidDoor, index, action)
	}

	if err := c.send(ctx, doorMessage{Type: typeDoor, Index: index, Action: string(action)}); err != nil {
		return err
	}

	text := fmt.Sprintf("DOOR%d %s", index, strings.ToUpper(string(action)))
	if err := c.sendText(ctx, text); err != nil {
		c.logger.Warn("door text fallback failed", "command", text, "error", err)
	}

	return nil
}

func (c *Client) SendPosition(ctx context.Context, place domain.Place) error {
	return c.send(ctx, positionMessage{Type: typeCurrentPosition, Value: string(place)})
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.generation++
	c.resetLocked()
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.writeMu.Unlock()

	c.logger.Info("closed")
	return conn.Close()
}

func (c *Client) send(ctx context.Context, payload any) error {
	c.mu.Lock()
	if c.state.Phase != domain.PhaseConnected {
		c.mu.Unlock()
		return ports.ErrNotConnected
	}
	conn, generation := c.conn, c.generation
	c.mu.Unlock()

	return c.write(ctx, conn, generation, payload)
}

func (c *Client) sendText(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.state.Phase != domain.PhaseConnected {
		c.mu.Unlock()
		return ports.ErrNotConnected
	}
	conn, generation := c.conn, c.generation
	c.mu.Unlock()

	return c.writeFrame(ctx, conn, generation, websocket.TextMessage, []byte(text))
}

func (c *Client) write(ctx context.Context, conn *websocket.Conn, generation uint64, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	return c.writeFrame(ctx, conn, generation, websocket.TextMessage, data)
}

func (c *Client) writeFrame(ctx context.Context, conn *websocket.Conn, generation uint64, messageType int, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Now().Add(c.cfg.WriteTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	c.writeMu.Lock()
	_ = conn.SetWriteDeadline(deadline)
	err := conn.WriteMessage(messageType, data)
	c.writeMu.Unlock()

	if err != nil {
		c.handleDisconnect(generation, err)
		return fmt.Errorf("write robot link: %w", err)
	}

	return nil
}

func (c *Client) readLoop(conn *websocket.Conn, generation uint64) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleDisconnect(generation, err)
			return
		}
		c.handleFrame(generation, data)
	}
}

func (c *Client) handleFrame(generation uint64, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.logger.Warn("dropping non-JSON message", "data", string(data))
		return
	}

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	gatewayUp := c.applyFrameLocked(frame)
	sink := c.sink
	c.mu.Unlock()

	if gatewayUp {
		if err := c.SendControllerConnected(context.Background()); err != nil {
			c.logger.Warn("controller hello failed", "error", err)
		}
	}

	if sink != nil {
		sink(domain.InboundMessage{Type: frame.Type, Raw: data})
	}
}

// applyFrameLocked folds a frame into the session state and reports whether
// the gateway announced itself as connected.
func (c *Client) applyFrameLocked(frame inboundFrame) bool {
	gatewayUp := false
	if frame.Type == typeStatus {
		switch text(frame.WS) {
		case linkConnected:
			c.state.GatewayHealthy = true
			gatewayUp = true
		case linkDisconnected:
			c.state.GatewayHealthy = false
		}

		switch text(frame.ESP32) {
		case linkConnected:
			c.state.MotorControllerHealthy = true
		case linkDisconnected:
			c.state.MotorControllerHealthy = false
		}
		if text(frame.Mega) == motorReady {
			c.state.MotorControllerHealthy = true
		}
	}

	if low, ok := frame.LowBat.(bool); ok {
		c.state.Battery = batteryFromLow(low)
	} else if level, ok := frame.Battery.(string); ok {
		c.state.Battery = batteryFromLow(strings.EqualFold(level, batteryLow))
	}

	return gatewayUp
}

func (c *Client) handleDisconnect(generation uint64, cause error) {
	c.mu.Lock()
	if generation != c.generation || c.state.Phase == domain.PhaseDisconnected {
		c.mu.Unlock()
		return
	}
	conn := c.conn
	c.conn = nil
	c.resetLocked()
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	c.logger.Warn("disconnected", "error", cause)
}

func (c *Client) resetLocked() {
	c.state.Phase = domain.PhaseDisconnected
	c.state.ConnectionID = ""
	c.state.HelloSent = false
	c.state.GatewayHealthy = false
	c.state.MotorControllerHealthy = false
}

func batteryFromLow(low bool) domain.Battery {
	if low {
		return domain.BatteryLow
	}
	return domain.BatteryOK
}
