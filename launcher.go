package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/Seklfreak/robyul-panels/logging"
	"github.com/Seklfreak/robyul-panels/metrics"
	"github.com/Seklfreak/robyul-panels/panels"
	"github.com/Seklfreak/robyul-panels/rest"
	"github.com/Seklfreak/robyul-panels/version"
	"github.com/bwmarrin/discordgo"
	"github.com/getsentry/raven-go"
	"github.com/kz/discordrus"
	"github.com/sirupsen/logrus"
)

var BotRuntimeChannel chan os.Signal

// Entrypoint
func main() {
	log := logrus.New()
	log.Out = os.Stdout
	log.Level = logrus.InfoLevel
	log.Formatter = &logrus.TextFormatter{ForceColors: true, FullTimestamp: true, TimestampFormat: time.RFC3339}
	log.Hooks = make(logrus.LevelHooks)
	cache.SetLogger(log)

	// Read config
	overrides, err := helpers.LoadEnv()
	if err != nil {
		log.WithField("module", "launcher").Fatal(err.Error())
	}
	helpers.LoadConfig(overrides.ConfigPath)
	helpers.ApplyEnv(overrides)

	// Check if the bot is being debugged
	if helpers.ConfigBool("debug", false) {
		helpers.DEBUG_MODE = true
		log.Level = logrus.DebugLevel
	}

	if path := helpers.ConfigString("logging.jsonfile", ""); path != "" {
		fileHook, err := logging.NewLogrusFileHook(path, log.Level)
		if err != nil {
			log.WithField("module", "launcher").Error("logrus file hook failed, err: ", err.Error())
		} else {
			log.Hooks.Add(fileHook)
			defer fileHook.Close()
		}
	}

	if webhook := helpers.ConfigString("logging.discord_webhook", ""); webhook != "" {
		log.Hooks.Add(discordrus.NewHook(
			webhook,
			logrus.ErrorLevel,
			&discordrus.Opts{
				Username:           "Panels Logging",
				DisableTimestamp:   false,
				TimestampFormat:    "Jan 2 15:04:05.00000",
				EnableCustomColors: true,
				CustomLevelColors: &discordrus.LevelColors{
					Error: 13631488,
					Panic: 13631488,
					Fatal: 13631488,
				},
			},
		))
	}

	log.WithField("module", "launcher").Info("Booting panels...")
	report := panels.NewStartupReport()

	// Read i18n
	helpers.LoadTranslations()

	// Show version
	version.DumpInfo()

	// Start metric server
	report.Add("metrics", true, metrics.Init())

	// Call home
	if dsn := helpers.ConfigString("sentry", ""); dsn != "" {
		log.WithField("module", "launcher").Info("[SENTRY] Calling home...")
		err = raven.SetDSN(dsn)
		if err != nil {
			panic(err)
		}
		if version.IsRelease() {
			raven.SetRelease(version.BOT_VERSION)
		}
		report.Add("sentry", true, "")
		log.WithField("module", "launcher").Info("[SENTRY] Someone picked up the phone \\^-^/")
	} else {
		report.Add("sentry", true, "disabled")
	}

	// Connect and add event handlers
	discordgo.Logger = discordLogger(log)
	log.WithField("module", "launcher").Info("Connecting panels to discord...")
	token := helpers.ConfigString("discord.token", "")
	if token == "" {
		log.WithField("module", "launcher").Fatal("no discord token, set discord.token or DISCORD_BOT_TOKEN")
	}
	discord, err := discordgo.New("Bot " + strings.TrimPrefix(token, "Bot "))
	if err != nil {
		panic(err)
	}

	discord.Lock()
	discord.Debug = false
	discord.LogLevel = discordgo.LogInformational
	discord.StateEnabled = true
	discord.State.MaxMessageCount = 100
	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent
	discord.Unlock()

	discord.AddHandler(BotOnReady(report))
	discord.AddHandler(BotOnMessageCreate)
	discord.AddHandler(BotOnReactionAdd)
	discord.AddHandler(BotOnReactionRemove)
	discord.AddHandlerOnce(metrics.OnReady)
	discord.AddHandler(metrics.OnMessageCreate)

	// Open REST API
	restListen := helpers.ConfigString("rest.listen", "localhost:2021")
	server := &http.Server{Addr: restListen, Handler: rest.NewContainer(report)}
	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			report.Add("rest", false, err.Error())
			log.WithField("module", "launcher").Error("REST API stopped: ", err.Error())
		}
	}()
	report.Add("rest", true, restListen)
	log.WithField("module", "launcher").Info("REST API listening on " + restListen)

	// Connect to discord
	err = discord.Open()
	if err != nil {
		raven.CaptureErrorAndWait(err, nil)
		panic(err)
	}

	// Make a channel that waits for a os signal
	BotRuntimeChannel = make(chan os.Signal, 1)
	signal.Notify(BotRuntimeChannel, os.Interrupt, syscall.SIGTERM)

	// Wait until the os wants us to shutdown
	<-BotRuntimeChannel

	log.WithField("module", "launcher").Info("panels is stopping")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = server.Shutdown(ctx)
	if err != nil {
		log.WithField("module", "launcher").Warn("REST API shutdown: ", err.Error())
	}
	log.WithField("module", "launcher").Info("Disconnecting bot discord session...")
	discord.Close()
}

// discordLogger bridges discordgo's logging into $log
func discordLogger(log *logrus.Logger) func(msgL, caller int, format string, a ...interface{}) {
	return func(msgL, caller int, format string, a ...interface{}) {
		pc, file, line, _ := runtime.Caller(caller)

		files := strings.Split(file, "/")
		file = files[len(files)-1]

		name := "unknown"
		if fn := runtime.FuncForPC(pc); fn != nil {
			fns := strings.Split(fn.Name(), ".")
			name = fns[len(fns)-1]
		}

		msg := format
		if strings.Contains(msg, "%") {
			msg = fmt.Sprintf(format, a...)
		}

		entry := log.WithField("module", "discordgo")
		switch msgL {
		case discordgo.LogError:
			entry.Errorf("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogWarning:
			entry.Warnf("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogInformational:
			entry.Infof("%s:%d:%s() %s", file, line, name, msg)
		case discordgo.LogDebug:
			entry.Debugf("%s:%d:%s() %s", file, line, name, msg)
		}
	}
}
