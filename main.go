package main

import "github.com/jsphweid/pianolyze/cmd"

func main() {
	cmd.Execute()
}
