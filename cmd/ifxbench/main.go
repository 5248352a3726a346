package main

import (
	"context"
	"log"

	"github.com/ifxcli/ifxcli/internal/ifxbench"
)

func main() {
	if err := ifxbench.Run(context.Background()); err != nil {
		log.Fatal(err)
	}
}
