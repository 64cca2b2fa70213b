//go:build unix

package process

import "golang.org/x/sys/unix"

func getpgrp() int { return unix.Getpgrp() }

// getsid returns session id of process pid, 0 is calling process
func getsid(pid int) (int, error) { return unix.Getsid(pid) }

func platformUname() (Uname, error) {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return Uname{}, err
	}

	return Uname{
		Sysname:  unix.ByteSliceToString(u.Sysname[:]),
		Nodename: unix.ByteSliceToString(u.Nodename[:]),
		Release:  unix.ByteSliceToString(u.Release[:]),
		Version:  unix.ByteSliceToString(u.Version[:]),
		Machine:  unix.ByteSliceToString(u.Machine[:]),
	}, nil
}
