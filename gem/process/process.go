// Package process implements process gem with information about the
// running host process
package process

import (
	"os"

	"github.com/oruby/ostar"
)

func init() {
	ostar.Gem("process", func(*ostar.Session) (map[string]ostar.Value, error) {
		members := make(map[string]ostar.Value)

		funcs := map[string]interface{}{
			"pid":      os.Getpid,
			"ppid":     os.Getppid,
			"uid":      os.Getuid,
			"gid":      os.Getgid,
			"euid":     os.Geteuid,
			"egid":     os.Getegid,
			"hostname": os.Hostname,
			"getpgrp":  getpgrp,
			"getsid":   getsid,
			"uname":    uname,
		}
		for name, fn := range funcs {
			f, err := ostar.GoFunc(fn)
			if err != nil {
				return nil, err
			}
			members[name] = ostar.FuncValue(name, f)
		}
		return members, nil
	})
}

// Uname holds system identification
type Uname struct {
	Sysname  string
	Nodename string
	Release  string
	Version  string
	Machine  string
}

func (u Uname) mapping() (*ostar.Mapping, error) {
	return ostar.NewMapping(
		ostar.Entry{Key: ostar.StringValue("sysname"), Value: ostar.StringValue(u.Sysname)},
		ostar.Entry{Key: ostar.StringValue("nodename"), Value: ostar.StringValue(u.Nodename)},
		ostar.Entry{Key: ostar.StringValue("release"), Value: ostar.StringValue(u.Release)},
		ostar.Entry{Key: ostar.StringValue("version"), Value: ostar.StringValue(u.Version)},
		ostar.Entry{Key: ostar.StringValue("machine"), Value: ostar.StringValue(u.Machine)},
	)
}

// uname returns system identification as mapping
func uname() (*ostar.Mapping, error) {
	u, err := platformUname()
	if err != nil {
		return nil, err
	}
	return u.mapping()
}
