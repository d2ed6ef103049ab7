package config

import (
	"net"
	"strconv"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// DSNValue returns the explicit DSN when configured, otherwise one built
// from the database section. Both report matched rather than changed rows,
// so an update that rewrites identical values still counts as a hit.
func (c *AppConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		m, err := mysqldriver.ParseDSN(v)
		if err != nil {
			return v
		}
		m.ClientFoundRows = true
		return m.FormatDSN()
	}
	return c.Database.DSNValue()
}

func (c DatabaseRuntimeConfig) DSNValue() string {
	m := mysqldriver.NewConfig()
	m.User = c.User
	m.Passwd = c.Password
	m.Net = "tcp"
	m.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
	m.DBName = c.Name
	m.ParseTime = c.ParseTime
	m.ClientFoundRows = true
	if loc := strings.TrimSpace(c.Loc); loc != "" {
		if l, err := time.LoadLocation(loc); err == nil {
			m.Loc = l
		}
	}
	m.Params = map[string]string{}
	for key, value := range c.Params {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			m.Params[k] = v
		}
	}
	if _, ok := m.Params["charset"]; !ok && c.Charset != "" {
		m.Params["charset"] = c.Charset
	}
	return m.FormatDSN()
}
