package debugs

import (
	"github.com/reusee/dscope"
	"github.com/reusee/seq/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
