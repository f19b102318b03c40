package main

import (
	log "github.com/sirupsen/logrus"
)

func main() {
	err := rootCmd.Execute()
	closeApp()
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
}
