package ostar

import (
	"fmt"
	"runtime/debug"
)

// Version of ostar
const Version = "0.3.0"

// Copyright returns copyright line shown by tools
func Copyright() string {
	return "ostar - Copyright (c) oruby developers"
}

// Description returns version line with engine module version
func Description() string {
	engine := "go.starlark.net"
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == "go.starlark.net" {
				engine += " " + dep.Version
			}
		}
	}
	return fmt.Sprintf("ostar %s (%s)", Version, engine)
}
