package main

import (
	"log"

	"github.com/hamrokrishi/advisory-service/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
