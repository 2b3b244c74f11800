package modules

import (
	"strings"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/Seklfreak/robyul-panels/metrics"
	"github.com/Seklfreak/robyul-panels/panels"
	"github.com/Seklfreak/robyul-panels/ratelimits"
	"github.com/bwmarrin/discordgo"
	"github.com/pkg/errors"
)

// Init initializes the plugins and records each of them in $report
func Init(session *discordgo.Session, report *panels.StartupReport) error {
	err := checkDuplicateCommands()
	if err != nil {
		return err
	}

	pluginCache = make(map[string]*Plugin)
	extendedPluginCache = make(map[string]*ExtendedPlugin)

	for i := range PluginList {
		ref := &PluginList[i]
		for _, cmd := range (*ref).Commands() {
			pluginCache[cmd] = ref
		}
		initPlugin(*ref, "[PLUG]", session, report)
	}

	for i := range PluginExtendedList {
		ref := &PluginExtendedList[i]
		for _, cmd := range (*ref).Commands() {
			extendedPluginCache[cmd] = ref
		}
		initPlugin(*ref, "[EXTENDED-PLUG]", session, report)
	}

	commands := make([]string, 0, len(pluginCache)+len(extendedPluginCache))
	for k := range pluginCache {
		commands = append(commands, k)
	}
	for k := range extendedPluginCache {
		commands = append(commands, k)
	}
	cache.SetPluginList(commands)

	cache.GetLogger().WithField("module", "modules").Infof(
		"Initializer finished. Loaded %d plugins and %d extended plugins", len(PluginList), len(PluginExtendedList))
	return nil
}

func initPlugin(plugin Plugin, tag string, session *discordgo.Session, report *panels.StartupReport) {
	name := helpers.Typeof(plugin)
	cache.GetLogger().WithField("module", "modules").Infof("%s %s reacts to [ %s ]",
		tag, name, strings.Join(plugin.Commands(), " "))

	component := "plugin." + strings.ToLower(strings.TrimPrefix(name, "*"))
	err := plugin.Init(session, report)
	if err != nil {
		cache.GetLogger().WithField("module", "modules").Errorf("%s %s failed to initialize: %s", tag, name, err.Error())
		report.Add(component, false, err.Error())
		return
	}
	report.Add(component, true, "")
}

// HasCommand returns true if a plugin listens to $command
func HasCommand(command string) bool {
	if _, ok := pluginCache[command]; ok {
		return true
	}
	_, ok := extendedPluginCache[command]
	return ok
}

// command - The command that triggered this execution
// content - The content without command
// msg     - The message object
func CallBotPlugin(command string, content string, msg *discordgo.Message) {
	// Defer a recovery in case anything panics
	defer helpers.RecoverDiscord(msg)

	if !HasCommand(command) {
		return
	}

	// Consume a key for this action
	ratelimits.Container.Drain(1, msg.Author.ID)

	metrics.CommandsExecuted.WithLabelValues(command).Inc()

	if ref, ok := pluginCache[command]; ok {
		(*ref).Action(command, content, msg, cache.GetSession())
	}
	if ref, ok := extendedPluginCache[command]; ok {
		(*ref).Action(command, content, msg, cache.GetSession())
	}
}

func CallExtendedPluginOnReactionAdd(reaction *discordgo.MessageReactionAdd) {
	defer helpers.Recover()

	for _, extendedPlugin := range PluginExtendedList {
		extendedPlugin.OnReactionAdd(reaction, cache.GetSession())
	}
}

func CallExtendedPluginOnReactionRemove(reaction *discordgo.MessageReactionRemove) {
	defer helpers.Recover()

	for _, extendedPlugin := range PluginExtendedList {
		extendedPlugin.OnReactionRemove(reaction, cache.GetSession())
	}
}

func checkDuplicateCommands() error {
	cmds := make(map[string]string)

	register := func(plug Plugin) error {
		t := helpers.Typeof(plug)
		for _, cmd := range plug.Commands() {
			if occupant, ok := cmds[cmd]; ok {
				return errors.Errorf("failed to load %s because '%s' was already registered by %s", t, cmd, occupant)
			}
			cmds[cmd] = t
		}
		return nil
	}

	for _, plug := range PluginList {
		if err := register(plug); err != nil {
			return err
		}
	}
	for _, plug := range PluginExtendedList {
		if err := register(plug); err != nil {
			return err
		}
	}
	return nil
}
