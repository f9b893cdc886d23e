package main

import (
	"db-export/cmd"
)

func main() {
	cmd.Execute()
}
