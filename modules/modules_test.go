package modules

import (
	"testing"

	"github.com/Seklfreak/robyul-panels/modules/plugins"
	"github.com/stretchr/testify/assert"
)

func TestCheckDuplicateCommands(t *testing.T) {
	assert.NoError(t, checkDuplicateCommands())

	original := PluginList
	defer func() { PluginList = original }()

	PluginList = append([]Plugin{}, original...)
	PluginList = append(PluginList, &plugins.Ping{})
	assert.Error(t, checkDuplicateCommands())
}

func TestHasCommandBeforeInit(t *testing.T) {
	assert.False(t, HasCommand("panel"))
}
