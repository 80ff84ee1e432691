package config

import (
	"os"
	"strconv"
	"strings"
)

// conf is a minimal namespaced environment reader, kept dependency-free so
// config loading never needs the logger (which itself needs config) to be
// initialized first.
type conf struct{ prefix string }

func newConf() conf { return conf{} }

func (c conf) get(key, def string) string {
	v := strings.TrimSpace(os.Getenv(c.prefix + key))
	if v == "" {
		return def
	}
	return v
}

func (c conf) getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(c.prefix + key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (c conf) getList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(c.prefix + key))
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
