package main

import "github.com/sumwatshade/floodwatch/cmd"

func main() {
	cmd.Execute()
}
