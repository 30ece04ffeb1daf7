package main

import (
	"os"

	"github.com/famlog/famlog/syncservice"
)

func main() {
	if err := syncservice.Run(); err != nil {
		os.Exit(1)
	}
}
