package cache

import "sync"

var (
	pluginCommandList []string
	modulelistsMutex  sync.RWMutex
)

// SetPluginList stores the commands of all plugins, extended ones included
func SetPluginList(l []string) {
	modulelistsMutex.Lock()
	pluginCommandList = l
	modulelistsMutex.Unlock()
}

// HasPluginList returns true once the plugins are initialized
func HasPluginList() bool {
	modulelistsMutex.RLock()
	defer modulelistsMutex.RUnlock()

	return pluginCommandList != nil
}
