// Command sitectl talks to the site content endpoint the same way the site does:
// it loads with cache and default fallback, saves whole documents and sends lead events.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
