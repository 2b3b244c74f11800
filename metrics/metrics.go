package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/Seklfreak/robyul-panels/cache"
	"github.com/Seklfreak/robyul-panels/helpers"
	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "panels"

var (
	// MessagesReceived counts all ever received messages
	MessagesReceived = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_received_total",
		Help:      "Messages received from the gateway.",
	})

	// CommandsExecuted increases after each command execution
	CommandsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_executed_total",
		Help:      "Executed commands by name.",
	}, []string{"command"})

	// PanelEvents counts dispatched reaction events by panel kind, event type and outcome
	PanelEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reaction_events_total",
		Help:      "Reaction events seen by the panel dispatcher.",
	}, []string{"kind", "type", "outcome"})

	// PanelsCreated counts posted panels by kind
	PanelsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Panels posted by kind.",
	}, []string{"kind"})

	// DiceRolled counts single dice rolled on dice panels
	DiceRolled = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dice_rolled_total",
		Help:      "Single dice rolled on dice panels.",
	})

	// TicketsOpened counts ticket channels created
	TicketsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_opened_total",
		Help:      "Ticket channels created.",
	})

	// RoleChanges counts role grants and revokes by direction
	RoleChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_changes_total",
		Help:      "Roles granted or revoked through role panels.",
	}, []string{"direction"})

	// GuildCount counts all joined guilds
	GuildCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "guilds",
		Help:      "Guilds the bot is in.",
	})

	// CoroutineCount counts all running coroutines
	CoroutineCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "goroutines",
		Help:      "Running goroutines.",
	})

	// Uptime stores the timestamp of the bot's boot
	Uptime = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "boot_timestamp_seconds",
		Help:      "Unix time the bot booted at.",
	})
)

// Init starts the metrics listener on metrics.listen, returns the address
func Init() string {
	listen := helpers.ConfigString("metrics.listen", "127.0.0.1:1337")
	Uptime.Set(float64(time.Now().Unix()))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		err := http.ListenAndServe(listen, mux)
		if err != nil {
			cache.GetLogger().WithField("module", "metrics").Error("metrics listener stopped: ", err.Error())
		}
	}()

	cache.GetLogger().WithField("module", "metrics").Info("Listening on " + listen)
	return listen
}

// OnReady listens for said discord event
func OnReady(session *discordgo.Session, event *discordgo.Ready) {
	go CollectDiscordMetrics(session)
	go CollectRuntimeMetrics()
}

// OnMessageCreate listens for said discord event
func OnMessageCreate(session *discordgo.Session, event *discordgo.MessageCreate) {
	MessagesReceived.Inc()
}

// CollectDiscordMetrics counts Guilds
func CollectDiscordMetrics(session *discordgo.Session) {
	for {
		time.Sleep(15 * time.Second)

		session.State.RLock()
		GuildCount.Set(float64(len(session.State.Guilds)))
		session.State.RUnlock()
	}
}

// CollectRuntimeMetrics counts all running coroutines
func CollectRuntimeMetrics() {
	for {
		time.Sleep(15 * time.Second)
		CoroutineCount.Set(float64(runtime.NumGoroutine()))
	}
}
