package main

import (
	"github.com/biosecret/go-todo/app"
	_ "github.com/biosecret/go-todo/docs"
)

// @title Go Todo API
// @version 1.0
// @description Users, bearer-token authentication and per-user todo lists.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// setup and run app
	err := app.SetupAndRunApp()
	if err != nil {
		panic(err)
	}
}
