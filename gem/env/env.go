// Package env implements env gem giving scripts access to process environment
package env

import (
	"os"
	"strings"

	"github.com/oruby/ostar"
)

func init() {
	ostar.Gem("env", func(*ostar.Session) (map[string]ostar.Value, error) {
		return map[string]ostar.Value{
			"get":       ostar.FuncValue("get", envGet),
			"set":       ostar.FuncValue("set", envSet),
			"delete":    ostar.FuncValue("delete", envDelete),
			"keys":      ostar.FuncValue("keys", envKeys),
			"values":    ostar.FuncValue("values", envValues),
			"has_key":   ostar.FuncValue("has_key", envHasKey),
			"has_value": ostar.FuncValue("has_value", envHasValue),
			"size":      ostar.FuncValue("size", envSize),
			"environ":   ostar.FuncValue("environ", envEnviron),
		}, nil
	})
}

func split(kv string) (string, string) {
	k, v, _ := strings.Cut(kv, "=")
	return k, v
}

func environ(part func(k, v string) string) []string {
	env := os.Environ()
	ret := make([]string, len(env))
	for i, s := range env {
		ret[i] = part(split(s))
	}
	return ret
}

// envGet returns variable value, default (second argument) or None
func envGet(args ostar.Args) (ostar.Value, error) {
	key, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}

	v, exists := os.LookupEnv(key)
	if !exists {
		return args.Item(1), nil
	}
	return ostar.StringValue(v), nil
}

// envSet sets variable, None value deletes it
func envSet(args ostar.Args) (ostar.Value, error) {
	key, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}

	v := args.Item(1)
	if v.IsNil() {
		return ostar.Nil, os.Unsetenv(key)
	}

	value, err := args.Text(1)
	if err != nil {
		return ostar.Nil, err
	}
	return v, os.Setenv(key, value)
}

// envDelete removes variable and returns its previous value or None
func envDelete(args ostar.Args) (ostar.Value, error) {
	key, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}

	v, exists := os.LookupEnv(key)
	if !exists {
		return ostar.Nil, nil
	}
	if err := os.Unsetenv(key); err != nil {
		return ostar.Nil, err
	}
	return ostar.StringValue(v), nil
}

func envKeys(ostar.Args) (ostar.Value, error) {
	return ostar.ListToSequence(environ(func(k, _ string) string { return k }))
}

func envValues(ostar.Args) (ostar.Value, error) {
	return ostar.ListToSequence(environ(func(_, v string) string { return v }))
}

func envHasKey(args ostar.Args) (ostar.Value, error) {
	key, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}
	_, exists := os.LookupEnv(key)
	return ostar.BoolValue(exists), nil
}

func envHasValue(args ostar.Args) (ostar.Value, error) {
	value, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}
	for _, v := range environ(func(_, v string) string { return v }) {
		if v == value {
			return ostar.True, nil
		}
	}
	return ostar.False, nil
}

func envSize(ostar.Args) (ostar.Value, error) {
	return ostar.IntValue(int64(len(os.Environ()))), nil
}

// envEnviron returns environment as mapping
func envEnviron(ostar.Args) (ostar.Value, error) {
	env := make(map[string]string)
	for _, s := range os.Environ() {
		k, v := split(s)
		env[k] = v
	}
	return ostar.MapToMapping(env)
}
