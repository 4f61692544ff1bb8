// Command ghostproxy runs the Ghost Proxy storefront bot.
package main

import (
	"log"

	"github.com/m3rciful/ghostproxy/core/cmd"
	"github.com/m3rciful/ghostproxy/core/config"
)

func main() {
	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		DotEnvFiles:       []string{".env"},
		LoadConfig:        config.Load,
		Bootstrap:         newApp,
	})
	if err != nil {
		log.Fatal(err)
	}
}
