// Package scriber talks to the optional companion audio-transcription
// service. The companion listens to system audio and produces
// higher-fidelity utterances than on-screen captions; when enabled, the
// daemon mirrors its session lifecycle into the companion and can fold
// its transcript in alongside captured captions.
package scriber
