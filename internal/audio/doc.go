// Package audio provides toast sound playback.
// It uses the beep library to play WAV, OGG, and MP3 audio files
// with volume control and per-type sound configuration.
package audio
