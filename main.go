package main

import (
	"github.com/soerengrunewald/pkgconf-mangler/cmd"
)

var (
	Version   string
	BuildTime string
)

func main() {
	cmd.SetVersion(Version)
	cmd.Execute()
}
