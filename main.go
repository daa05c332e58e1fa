package main

import "media-viewer/cmd"

func main() {
	cmd.Execute()
}
