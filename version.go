package main

// _version is the version of rolemark.
// It's set at build time with -ldflags "-X main._version=...".
var _version = "dev"
