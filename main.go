package main

import "slackrecap/internal/app"

func main() {
	app.Run()
}
