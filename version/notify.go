package version

import (
	"fmt"

	"github.com/playtrail/playtrail/color"
	"github.com/playtrail/playtrail/constant"
	"github.com/playtrail/playtrail/icon"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/style"
	"github.com/playtrail/playtrail/util"
	"github.com/spf13/viper"
)

// Notify prints a banner when a newer release than the running one exists.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking for a new version...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()

	if err != nil {
		return
	}

	if cmp, err := Compare(latest, constant.Version); err != nil || cmp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/playtrail/playtrail/releases/tag/v"+latest),
	)
}
