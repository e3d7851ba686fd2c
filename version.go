package stylebot

// Version is the release version of stylebot.
// Overridden at build time via -ldflags "-X github.com/aretw0/stylebot.Version=...".
var Version = "0.1.0"
