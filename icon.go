package main

import _ "embed"

//go:embed assets/tray.png
var trayIconBytes []byte
