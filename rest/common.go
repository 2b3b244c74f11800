package rest

import (
	"time"

	"github.com/Seklfreak/robyul-panels/panels"
	"github.com/Seklfreak/robyul-panels/version"
)

// Rest_Status is the body of GET /status
type Rest_Status struct {
	Version    version.Info       `json:"version"`
	Started    time.Time          `json:"started"`
	Uptime     string             `json:"uptime"`
	Connected  bool               `json:"connected"`
	Ready      bool               `json:"ready"`
	Components []panels.Component `json:"components"`
}

func newStatus(report *panels.StartupReport, connected bool, now time.Time) Rest_Status {
	components := report.Components()
	ready := connected
	for _, component := range components {
		if !component.Ready && !optional(component.Name) {
			ready = false
		}
	}

	return Rest_Status{
		Version:    version.Get(),
		Started:    report.Started,
		Uptime:     now.Sub(report.Started).Round(time.Second).String(),
		Connected:  connected,
		Ready:      ready,
		Components: components,
	}
}

// resolvers may be switched off in the config, the bot is still healthy without them
func optional(name string) bool {
	for _, kind := range []panels.Kind{panels.KindRole, panels.KindDice, panels.KindTicket} {
		if name == panels.ResolverComponent(kind) {
			return true
		}
	}
	return false
}
