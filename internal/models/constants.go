package models

// contains all supported pacing modes (in lowercase)
var ValidModes = map[string]bool{
	"turns": true,
	"time":  true,
}

// contains all supported interview channels (in lowercase)
var ValidChannels = map[string]bool{
	"chat":  true,
	"voice": true,
}

func ValidModesList() []string {
	return []string{"turns", "time"}
}

func ValidChannelsList() []string {
	return []string{"chat", "voice"}
}
