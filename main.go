package main

import "github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/app"

func main() {
	app.Main()
}
