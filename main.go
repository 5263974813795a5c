package main

import (
	"log"

	"github.com/rover-control/rover/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
