package ch

import (
	"os"
	"runtime"
	"strings"

	"steakfeed/internal/core/version"

	"github.com/ClickHouse/clickhouse-go/v2"
)

type product = struct{ Name, Version string }

// ClientInfo tags queries in system.query_log with the service, its role,
// the build and the host. Blank parts are left out
func ClientInfo(service, role string) clickhouse.ClientInfo {
	service = strings.TrimSpace(service)
	bi := version.Info(service)

	commit := bi.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	host, _ := os.Hostname()

	var ps []product
	add := func(name, v string) {
		if v = strings.TrimSpace(v); name != "" && v != "" {
			ps = append(ps, product{Name: name, Version: v})
		}
	}
	add(service, bi.Version)
	add("role", role)
	add("commit", commit)
	add("go", runtime.Version())
	add("host", host)
	return clickhouse.ClientInfo{Products: ps}
}
