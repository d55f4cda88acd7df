package main

import (
	"tracklist/cmd"
)

func main() {
	// If Execute() had a problem, Cobra would have called os.Exit.
	cmd.Execute()
}
