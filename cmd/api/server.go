package main

import (
	"net/http"
	"time"
)

func (app *app) serve() error {
	server := &http.Server{
		Addr:              app.config.Server.Bind,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
