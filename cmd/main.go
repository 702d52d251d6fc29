package main

import (
	api "Longshot"
)

func main() {
	api.Run()
}
