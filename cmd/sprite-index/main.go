package main

import "sprite-index/cmd"

func main() {
	cmd.Execute()
}
