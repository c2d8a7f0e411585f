package main

import "estatedesk_backend/internal/app"

func main() {
	app.Run()
}
