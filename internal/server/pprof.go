package server

import (
	"log"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// StartPprofServer serves pprof on its own port. Keep it off the public
// listener; reach it over an SSH tunnel.
func StartPprofServer(port string) {
	pprofRouter := gin.New()
	pprof.Register(pprofRouter)

	go func() {
		log.Printf("Starting pprof server on %s", port)
		if err := pprofRouter.Run(port); err != nil {
			log.Fatalf("Failed to start pprof server: %v", err)
		}
	}()
}
