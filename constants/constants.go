package constants

import "os"

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

// Bounds on adversarial input: a declared count or chunk length is checked
// against these before any allocation or slicing happens.
const MaxTracks = 256

const MaxTrackBytes = 16 * 1024 * 1024

const MaxUploadBytes = 32 * 1024 * 1024

// SMF defaults when the file is silent: 120 BPM.
const DefaultTempo = 500000

const DefaultDivision = 480
