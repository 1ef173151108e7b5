package main

import "github.com/jsphweid/chordlight/cmd"

func main() {
	cmd.Execute()
}
