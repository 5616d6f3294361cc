package mini

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/playtrail/playtrail/icon"
	"github.com/playtrail/playtrail/style"
	"github.com/samber/lo"
)

// ask is swapped out in tests.
var ask = survey.AskOne

type bind struct {
	name string
}

func (b *bind) String() string {
	return b.name
}

func (b *bind) eq(other *bind) bool {
	return other != nil && b.name == other.name
}

var (
	next   = &bind{"Next"}
	prev   = &bind{"Previous"}
	replay = &bind{"Replay"}
	back   = &bind{"Back"}
	quit   = &bind{"Quit"}
)

func title(t string) {
	fmt.Println(style.Fg(style.AccentColor)(style.Bold(truncate(t))))
}

func info(t string) {
	fmt.Println(style.Faint(icon.Get(icon.Progress) + " " + truncate(t)))
}

func fail(t string) {
	fmt.Println(style.Fg(style.ErrorColor)(icon.Get(icon.Fail) + " " + truncate(t)))
}

func truncate(t string) string {
	if truncateAt <= 3 || len([]rune(t)) <= truncateAt {
		return t
	}
	return string([]rune(t)[:truncateAt-3]) + "..."
}

// menu offers items followed by binds. Exactly one of the returned bind and item is set.
// An interrupt selects quit.
func menu[T fmt.Stringer](items []T, binds ...*bind) (*bind, T, error) {
	var zero T

	options := lo.Map(items, func(item T, i int) string {
		return fmt.Sprintf("%d. %s", i+1, item.String())
	})
	options = append(options, lo.Map(binds, func(b *bind, _ int) string {
		return b.String()
	})...)

	var index int
	err := ask(&survey.Select{
		Message:  ">",
		Options:  options,
		PageSize: 15,
	}, &index)

	if errors.Is(err, terminal.InterruptErr) {
		return quit, zero, nil
	}

	if err != nil {
		return nil, zero, err
	}

	if index < len(items) {
		return nil, items[index], nil
	}

	return binds[index-len(items)], zero, nil
}
