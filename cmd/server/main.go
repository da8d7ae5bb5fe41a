package main

import "ptoportal/internal/app/server"

func main() {
	server.Run()
}
