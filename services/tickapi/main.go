package main

import (
	"github.com/tickpiar/tick/services/tickapi/cmd"
)

func main() {
	cmd.Execute()
}
