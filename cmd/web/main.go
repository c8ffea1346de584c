package main

import "rentpro_backend/internal/app"

func main() {
	app.Run()
}
