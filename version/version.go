package version

import "github.com/Seklfreak/robyul-panels/cache"

// Version related vars
// Set by compiler
var (
	// BOT_VERSION example: 0.5.2-4-g205bbb8
	BOT_VERSION string = "DEV_SNAPSHOT"

	// BUILD_TIME example: Fri Jan  6 00:45:46 CET 2017
	BUILD_TIME string = "UNSET"

	// BUILD_USER example: sn0w
	BUILD_USER string = "UNSET"

	// BUILD_HOST example: nepgear
	BUILD_HOST string = "UNSET"
)

// Info is the build metadata as served by the status endpoint
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	BuildUser string `json:"build_user"`
	BuildHost string `json:"build_host"`
}

func Get() Info {
	return Info{
		Version:   BOT_VERSION,
		BuildTime: BUILD_TIME,
		BuildUser: BUILD_USER,
		BuildHost: BUILD_HOST,
	}
}

// IsRelease is false for local builds
func IsRelease() bool {
	return BOT_VERSION != "DEV_SNAPSHOT" && BOT_VERSION != "UNSET" && BOT_VERSION != ""
}

// DumpInfo dumps all above vars
func DumpInfo() {
	log := cache.GetLogger().WithField("module", "version")
	log.Debug("BOT VERSION: " + BOT_VERSION)
	log.Debug("BUILD TIME: " + BUILD_TIME)
	log.Debug("BUILD USER: " + BUILD_USER)
	log.Debug("BUILD HOST: " + BUILD_HOST)
}
