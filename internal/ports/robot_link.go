package ports

import (
	"context"
	"errors"

	"github.com/bnema/robotctl/internal/domain"
)

var ErrNotConnected = errors.New("robot link is not connected")

type MessageSink func(domain.InboundMessage)

// RobotLink is the persistent socket to the robot backend.
type RobotLink interface {
	Connect(ctx context.Context, sink MessageSink) error
	IsConnected() bool
	State() domain.SessionState
	SendSequence(ctx context.Context, wire string) error
	SendControllerConnected(ctx context.Context) error
	SendAck(ctx context.Context, wire string) error
	SendDoor(ctx context.Context, index int, action domain.DoorAction) error
	SendPosition(ctx context.Context, place domain.Place) error
	Close() error
}
