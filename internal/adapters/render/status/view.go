package status

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/robotctl/internal/application"
	"github.com/bnema/robotctl/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// View is everything the status screen shows.
type View struct {
	Snapshot application.Snapshot
	Routes   []domain.Route
}

type RenderOptions struct {
	// Endpoint is shown next to the link state when set.
	Endpoint string
	BarWidth int
}

func renderView(view View, opts RenderOptions, s styles) string {
	header := "link: " + string(view.Snapshot.Session.Phase)
	if opts.Endpoint != "" {
		header += " (" + opts.Endpoint + ")"
	}

	lines := []string{
		s.title.Render("Robot Status"),
		s.header.Render(header),
		s.section.Render(renderSession(view.Snapshot, s)),
		s.section.Render(renderController(view.Snapshot, s)),
		s.section.Render(renderRoutes(view.Routes, opts, s)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSession(snapshot application.Snapshot, s styles) string {
	session := snapshot.Session
	lines := []string{
		field(s, "gateway", healthLabel(session.Connected() && session.GatewayHealthy, s)),
		field(s, "motor controller", healthLabel(session.Connected() && session.MotorControllerHealthy, s)),
		field(s, "battery", batteryLabel(session.Battery, s)),
	}
	if session.ConnectionID != "" {
		hello := "pending"
		if session.HelloSent {
			hello = "sent"
		}
		lines = append(lines, field(s, "connection", s.detail.Render(session.ConnectionID+" (hello "+hello+")")))
	}
	if snapshot.PromptOutstanding {
		lines = append(lines, s.warning.Render("not connected: retry or dismiss"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderController(snapshot application.Snapshot, s styles) string {
	route := fmt.Sprintf("%s -> %s", snapshot.Origin.Label(), snapshot.Destination.Label())

	recorded := s.empty.Render("none")
	if len(snapshot.Steps) > 0 {
		recorded = s.detail.Render(fmt.Sprintf("%d steps %s", len(snapshot.Steps), domain.Encode(snapshot.Steps)))
	}

	lockout := s.healthy.Render("ready")
	if snapshot.LockoutWait > 0 {
		color := interpolateColor(float64(snapshot.LockoutWait), 0, 10)
		lockout = lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf("please wait %d seconds", snapshot.LockoutWait))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		field(s, "route", s.detail.Render(route)),
		field(s, "recorded", recorded),
		field(s, "lockout", lockout),
	)
}

func renderRoutes(routes []domain.Route, opts RenderOptions, s styles) string {
	lines := []string{s.label.Render(fmt.Sprintf("saved routes: %d", len(routes)))}
	if len(routes) == 0 {
		lines = append(lines, s.empty.Render("No saved routes."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := opts.BarWidth
	if width <= 0 {
		width = 20
	}

	var longest time.Duration
	for _, route := range routes {
		longest = max(longest, domain.SequenceDuration(route.Sequence))
	}

	for _, route := range routes {
		duration := domain.SequenceDuration(route.Sequence)
		lines = append(lines, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.routeKey.Render(fmt.Sprintf("%s -> %s", route.Origin, route.Destination)),
			" ",
			renderProgressBar(fraction(duration, longest), width, s),
			" ",
			s.routeMeta.Render(fmt.Sprintf("%d steps, %s", len(route.Sequence), formatDuration(duration))),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func field(s styles, name string, value string) string {
	return s.label.Render(name+":") + " " + value
}

func healthLabel(ok bool, s styles) string {
	if ok {
		return s.healthy.Render("ok")
	}
	return s.warning.Render("down")
}

func batteryLabel(battery domain.Battery, s styles) string {
	switch battery {
	case domain.BatteryOK:
		return s.healthy.Render("ok")
	case domain.BatteryLow:
		return s.warning.Render("low")
	default:
		return s.empty.Render("unknown")
	}
}

func fraction(value, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return float64(value) / float64(total)
}

func formatDuration(d time.Duration) string {
	seconds := d.Seconds()
	if seconds == math.Trunc(seconds) {
		return fmt.Sprintf("%.0fs", seconds)
	}
	return fmt.Sprintf("%.1fs", seconds)
}

func renderProgressBar(filledFraction float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * filledFraction))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	empty := width - filled
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}

// interpolateColor maps value onto the 255..240 greyscale ramp, brightest at min.
func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	return lipgloss.Color(fmt.Sprintf("%d", int(255-15*normalized)))
}
