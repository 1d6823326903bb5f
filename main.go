package main

import "github.com/RyanBlaney/songsim/cmd"

func main() {
	cmd.Execute()
}
