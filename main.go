package main

import (
	"github.com/playtrail/playtrail/cmd"
	"github.com/playtrail/playtrail/config"
	"github.com/playtrail/playtrail/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
