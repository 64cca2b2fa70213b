// Package base64 implements base64 gem with encoding/base64
package base64

import (
	"encoding/base64"

	"github.com/oruby/ostar"
)

func init() {
	ostar.Gem("base64", func(s *ostar.Session) (map[string]ostar.Value, error) {
		return map[string]ostar.Value{
			"decode64":         ostar.FuncValue("decode64", decoder(base64.StdEncoding)),
			"encode64":         ostar.FuncValue("encode64", encoder(base64.StdEncoding)),
			"strict_decode64":  ostar.FuncValue("strict_decode64", decoder(base64.StdEncoding.Strict())),
			"strict_encode64":  ostar.FuncValue("strict_encode64", encoder(base64.StdEncoding.Strict())),
			"urlsafe_decode64": ostar.FuncValue("urlsafe_decode64", urlSafeDecode),
			"urlsafe_encode64": ostar.FuncValue("urlsafe_encode64", urlSafeEncode),
		}, nil
	})
}

func decoder(enc *base64.Encoding) ostar.Func {
	return func(args ostar.Args) (ostar.Value, error) {
		str, err := args.Text(0)
		if err != nil {
			return ostar.Nil, err
		}
		data, err := enc.DecodeString(str)
		if err != nil {
			return ostar.Nil, err
		}
		return ostar.StringValue(string(data)), nil
	}
}

func encoder(enc *base64.Encoding) ostar.Func {
	return func(args ostar.Args) (ostar.Value, error) {
		str, err := args.Text(0)
		if err != nil {
			return ostar.Nil, err
		}
		return ostar.StringValue(enc.EncodeToString([]byte(str))), nil
	}
}

// urlSafeDecode accepts both padded and unpadded input, like
// "Base 64 Encoding with URL and Filename Safe Alphabet" in RFC 4648
func urlSafeDecode(args ostar.Args) (ostar.Value, error) {
	str, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}

	b64 := base64.RawURLEncoding
	if len(str)%4 == 0 && len(str) > 0 && str[len(str)-1] == '=' {
		b64 = base64.URLEncoding
	}

	data, err := b64.DecodeString(str)
	if err != nil {
		return ostar.Nil, err
	}
	return ostar.StringValue(string(data)), nil
}

// urlSafeEncode adds padding only with padding=True
func urlSafeEncode(args ostar.Args) (ostar.Value, error) {
	str, err := args.Text(0)
	if err != nil {
		return ostar.Nil, err
	}

	b64 := base64.RawURLEncoding
	if padding, ok := args.Kwarg("padding"); ok && padding.Truth() {
		b64 = base64.URLEncoding
	}
	return ostar.StringValue(b64.EncodeToString([]byte(str))), nil
}
