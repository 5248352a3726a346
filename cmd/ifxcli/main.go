package main

import (
	"context"
	"log"

	"github.com/ifxcli/ifxcli/internal/ifxcli"
)

func main() {
	if err := ifxcli.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
