package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/playtrail/playtrail/config"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/key"
	"github.com/playtrail/playtrail/progress"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestRenderTable(t *testing.T) {
	Convey("renderTable", t, func() {
		Convey("Should render headers and pad short rows", func() {
			out := renderTable([]string{"ID", "Progress"}, [][]string{{"course", "40%"}, {"extras"}}, []columnAlignment{alignLeft, alignRight})
			So(out, ShouldContainSubstring, "ID")
			So(out, ShouldContainSubstring, "course")
			So(out, ShouldContainSubstring, "40%")
			So(out, ShouldContainSubstring, "extras")
			So(strings.Count(out, "\n"), ShouldBeGreaterThanOrEqualTo, 4)
		})

		Convey("Should render nothing without headers", func() {
			So(renderTable(nil, [][]string{{"x"}}, nil), ShouldBeEmpty)
		})
	})
}

func TestErrUnknownKey(t *testing.T) {
	Convey("Given a mistyped config key", t, func() {
		Convey("a fuzzy match is suggested", func() {
			err := errUnknownKey("gate_size")
			So(err.Error(), ShouldContainSubstring, key.PlaylistGateSize)
		})

		Convey("a near miss by edit distance is suggested", func() {
			err := errUnknownKey("progress.backedn")
			So(err.Error(), ShouldContainSubstring, key.ProgressBackend)
		})
	})
}

func TestValidateSetting(t *testing.T) {
	Convey("validateSetting", t, func() {
		So(validateSetting(key.ProgressBackend, progress.BackendSQLite), ShouldBeNil)
		So(validateSetting(key.ProgressBackend, "redis"), ShouldNotBeNil)
		So(validateSetting(key.IconsVariant, "nerd"), ShouldBeNil)
		So(validateSetting(key.IconsVariant, "ascii"), ShouldNotBeNil)
		So(validateSetting(key.PlaylistGateSize, -1), ShouldNotBeNil)
		So(validateSetting(key.PlaylistGateSize, 0), ShouldBeNil)
		So(validateSetting(key.LogsJson, true), ShouldBeNil)
	})
}

func TestInlineSchema(t *testing.T) {
	Convey("inline schema", t, func() {
		var buf bytes.Buffer
		inlineSchemaCmd.SetOut(&buf)
		inlineSchemaCmd.Run(inlineSchemaCmd, nil)

		So(buf.String(), ShouldContainSubstring, `"query"`)
		So(buf.String(), ShouldContainSubstring, `"hole"`)
	})
}

func TestParseValue(t *testing.T) {
	Convey("parseValue follows the type of the default", t, func() {
		gate := config.Default[key.PlaylistGateSize]
		v, err := parseValue(gate, []string{"4"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 4)

		_, err = parseValue(gate, []string{"four"})
		So(err, ShouldNotBeNil)

		v, err = parseValue(config.Default[key.PlaylistExcludeMissing], []string{"true"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, true)

		v, err = parseValue(config.Default[key.ProgressBackend], []string{"sqlite"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "sqlite")
	})
}
