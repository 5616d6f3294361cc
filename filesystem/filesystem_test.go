package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			fs := API()
			So(fs, ShouldNotBeNil)
			So(fs.Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestWriteFileAtomic(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()
		path := "/data/progress.json"

		Convey("When writing a new file", func() {
			err := WriteFileAtomic(path, []byte(`{"a":1}`), 0o644)

			Convey("Then the content should be readable", func() {
				So(err, ShouldBeNil)
				data, err := API().ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"a":1}`)
			})

			Convey("And a second write should replace it without leftovers", func() {
				So(WriteFileAtomic(path, []byte(`{}`), 0o644), ShouldBeNil)
				data, err := API().ReadFile(path)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{}`)

				entries, err := API().ReadDir("/data")
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 1)
			})
		})
	})
}
