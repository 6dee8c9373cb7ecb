package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGetHyperParamOrDefault(t *testing.T) {
	Convey("Given a config with one hyperparameter set", t, func() {
		cfg := &SolverConfig{HyperParams: []HyperParameter{{Key: "max_size", Val: 2048}}}

		Convey("a known key returns its value", func() {
			So(cfg.GetHyperParamOrDefault("max_size", 64), ShouldEqual, 2048)
		})

		Convey("an unknown key falls back to the default", func() {
			So(cfg.GetHyperParamOrDefault("weight_precision", 16), ShouldEqual, 16)
		})
	})
}

func TestWithSolveDeadline(t *testing.T) {
	Convey("Given a config with a duration deadline", t, func() {
		cfg := &SolverConfig{SolveDeadline: map[string]string{"duration": "50ms"}}

		Convey("the returned context carries that deadline", func() {
			ctx, cancel, err := cfg.WithSolveDeadline(context.Background())
			defer cancel()
			So(err, ShouldBeNil)

			deadline, ok := ctx.Deadline()
			So(ok, ShouldBeTrue)
			So(time.Until(deadline), ShouldBeLessThanOrEqualTo, 50*time.Millisecond)
		})
	})

	Convey("Given a config with no deadline", t, func() {
		cfg := &SolverConfig{}

		Convey("the returned context has none", func() {
			ctx, cancel, err := cfg.WithSolveDeadline(context.Background())
			defer cancel()
			So(err, ShouldBeNil)

			_, ok := ctx.Deadline()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFromYaml(t *testing.T) {
	Convey("Given a YAML file with a wrapped solver spec", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "solver.yaml")
		contents := "kind: solver\n" +
			"def:\n" +
			"  hyperParams:\n" +
			"    - key: max_size\n" +
			"      val: 2048\n" +
			"  workers: 4\n" +
			"  solveDeadline:\n" +
			"    duration: 30s\n"
		So(os.WriteFile(path, []byte(contents), 0o644), ShouldBeNil)

		Convey("FromYaml loads it into a SolverConfig", func() {
			cfg, err := FromYaml(path)
			So(err, ShouldBeNil)
			So(cfg.Workers, ShouldEqual, 4)
			So(cfg.GetHyperParamOrDefault("max_size", 0), ShouldEqual, 2048)
			So(cfg.SolveDeadline["duration"], ShouldEqual, "30s")
		})
	})
}
