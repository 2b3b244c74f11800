package modules

import (
	"github.com/Seklfreak/robyul-panels/modules/plugins"
)

var (
	pluginCache         map[string]*Plugin
	extendedPluginCache map[string]*ExtendedPlugin

	PluginList = []Plugin{
		&plugins.Ping{},
	}

	PluginExtendedList = []ExtendedPlugin{
		&plugins.Panels{},
	}
)
