// Package startup handles configuration loading and the structured
// startup/shutdown logging for the music player.
//
// Configuration comes from environment variables only; there is no
// configuration file. The init sequence is logged in numbered phases
// (storage mount, audio device, library scan), and a failed mount prints
// a storage diagnostics block before the process aborts.
package startup
