package application

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/robotctl/internal/domain"
)

type DriveCommandKind string

const (
	DriveMotion      DriveCommandKind = "motion"
	DriveFrom        DriveCommandKind = "from"
	DriveTo          DriveCommandKind = "to"
	DriveSave        DriveCommandKind = "save"
	DriveMove        DriveCommandKind = "move"
	DriveReturn      DriveCommandKind = "return"
	DriveReset       DriveCommandKind = "reset"
	DriveDelete      DriveCommandKind = "delete"
	DriveDoor        DriveCommandKind = "door"
	DriveRetry       DriveCommandKind = "retry"
	DriveDismiss     DriveCommandKind = "dismiss"
	DriveStatus      DriveCommandKind = "status"
	DriveHelp        DriveCommandKind = "help"
	DriveQuit        DriveCommandKind = "quit"
	DriveUnspecified DriveCommandKind = ""
)

// DriveCommand is one parsed line of the interactive drive session.
type DriveCommand struct {
	Kind       DriveCommandKind
	Action     domain.Action
	Units      string
	Place      domain.Place
	Door       int
	DoorAction domain.DoorAction
}

var motionWords = map[string]domain.Action{
	"f": domain.ActionForward, "forward": domain.ActionForward,
	"b": domain.ActionBackward, "backward": domain.ActionBackward,
	"l": domain.ActionLeft, "left": domain.ActionLeft,
	"r": domain.ActionRight, "right": domain.ActionRight,
	"s": domain.ActionStop, "stop": domain.ActionStop,
}

var plainWords = map[string]DriveCommandKind{
	"save":    DriveSave,
	"move":    DriveMove,
	"return":  DriveReturn,
	"reset":   DriveReset,
	"delete":  DriveDelete,
	"retry":   DriveRetry,
	"dismiss": DriveDismiss,
	"status":  DriveStatus,
	"help":    DriveHelp,
	"?":       DriveHelp,
	"quit":    DriveQuit,
	"exit":    DriveQuit,
}

// ParseDriveCommand parses a line such as "f 3", "to table2" or "door 1 close".
// An empty line parses to DriveUnspecified.
func ParseDriveCommand(line string) (DriveCommand, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return DriveCommand{Kind: DriveUnspecified}, nil
	}

	word, args := fields[0], fields[1:]
	if action, ok := motionWords[word]; ok {
		cmd := DriveCommand{Kind: DriveMotion, Action: action}
		if action.Linear() {
			if len(args) != 1 {
				return DriveCommand{}, fmt.Errorf("%s needs units, e.g. %q", word, word+" 3")
			}
			cmd.Units = args[0]
		}
		return cmd, nil
	}
	if kind, ok := plainWords[word]; ok {
		return DriveCommand{Kind: kind}, nil
	}

	switch word {
	case "from", "to":
		if len(args) != 1 {
			return DriveCommand{}, fmt.Errorf("%s needs a place", word)
		}
		place, err := domain.ParsePlace(args[0])
		if err != nil {
			return DriveCommand{}, err
		}
		return DriveCommand{Kind: DriveCommandKind(word), Place: place}, nil
	case "door":
		if len(args) == 0 || len(args) > 2 {
			return DriveCommand{}, fmt.Errorf("usage: door <1|2|3> [open|close]")
		}
		index, err := strconv.Atoi(args[0])
		if err != nil || !domain.ValidDoor(index) {
			return DriveCommand{}, fmt.Errorf("%w: %q", domain.ErrInvalidDoor, args[0])
		}
		action := domain.DoorOpen
		if len(args) == 2 {
			action = domain.DoorAction(args[1])
			if !action.Valid() {
				return DriveCommand{}, fmt.Errorf("%w: action %q", domain.ErrInvalidDoor, args[1])
			}
		}
		return DriveCommand{Kind: DriveDoor, Door: index, DoorAction: action}, nil
	}

	return DriveCommand{}, fmt.Errorf("unknown command %q", word)
}
