package main

import (
	"drafty/cmd/handlers"
	"drafty/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
