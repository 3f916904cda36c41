package logging_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/RyanBlaney/courtside/logging"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultLogger(t *testing.T) {
	Convey("Given a writer-backed logger at info level", t, func() {
		var buf bytes.Buffer
		logger := logging.NewWriterLogger(&buf, logging.InfoLevel)

		Convey("Debug lines are filtered out", func() {
			logger.Debug("hidden")
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("Fields are rendered in key order", func() {
			logger.WithFields(logging.Fields{"b": 2, "a": 1}).Info("frames ready")
			So(buf.String(), ShouldEqual, "[INFO] frames ready a=1 b=2\n")
		})

		Convey("Errors are appended after the message", func() {
			logger.Error(errors.New("boom"), "decode failed", logging.Fields{"file": "x.wav"})
			So(buf.String(), ShouldEqual, "[ERROR] decode failed: boom file=x.wav\n")
		})

		Convey("Context fields are picked up", func() {
			ctx := logging.ContextWithFields(context.Background(), logging.Fields{"game": "42"})
			logger.WithContext(ctx).Warn("slow fetch")
			So(buf.String(), ShouldEqual, "[WARN] slow fetch game=42\n")
		})
	})
}

func TestParseLevel(t *testing.T) {
	Convey("Level names parse case-insensitively", t, func() {
		lvl, err := logging.ParseLevel("DEBUG")
		So(err, ShouldBeNil)
		So(lvl, ShouldEqual, logging.DebugLevel)

		lvl, err = logging.ParseLevel("")
		So(err, ShouldBeNil)
		So(lvl, ShouldEqual, logging.InfoLevel)

		_, err = logging.ParseLevel("loud")
		So(err, ShouldNotBeNil)
	})
}
