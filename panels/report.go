package panels

import (
	"sync"
	"time"
)

// Component is one entry of the startup report
type Component struct {
	Name   string `json:"name"`
	Ready  bool   `json:"ready"`
	Detail string `json:"detail,omitempty"`
}

// StartupReport records what came up during boot. The dispatcher only routes to
// resolvers the report marks as ready.
type StartupReport struct {
	sync.RWMutex
	Started    time.Time
	components []Component
}

func NewStartupReport() *StartupReport {
	return &StartupReport{Started: time.Now().UTC()}
}

// Add records $name, a later entry with the same name replaces the earlier one
func (r *StartupReport) Add(name string, ready bool, detail string) {
	r.Lock()
	defer r.Unlock()

	for i := range r.components {
		if r.components[i].Name == name {
			r.components[i] = Component{Name: name, Ready: ready, Detail: detail}
			return
		}
	}
	r.components = append(r.components, Component{Name: name, Ready: ready, Detail: detail})
}

// Ready returns false for unknown components
func (r *StartupReport) Ready(name string) bool {
	r.RLock()
	defer r.RUnlock()

	for _, component := range r.components {
		if component.Name == name {
			return component.Ready
		}
	}
	return false
}

func (r *StartupReport) Components() []Component {
	r.RLock()
	defer r.RUnlock()

	components := make([]Component, len(r.components))
	copy(components, r.components)
	return components
}

// ResolverComponent is the report name of the resolver for $kind
func ResolverComponent(kind Kind) string {
	return "resolver." + kind.String()
}
