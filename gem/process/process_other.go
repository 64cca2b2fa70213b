//go:build !unix

package process

import (
	"errors"
	"os"
	"runtime"
)

var errNotImplemented = errors.New("NotImplementedError")

func getpgrp() int { return os.Getpid() }

func getsid(int) (int, error) { return 0, errNotImplemented }

func platformUname() (Uname, error) {
	host, _ := os.Hostname()
	return Uname{Sysname: runtime.GOOS, Nodename: host, Machine: runtime.GOARCH}, nil
}
